package detect

import (
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/tidwall/gjson"

	"github.com/indaco/devflake/internal/semver"
)

// JavaScriptDetector recognizes the Node/Bun/Deno ecosystem: package.json,
// version files, the various lockfiles, and JS/TS source files.
type JavaScriptDetector struct{}

func NewJavaScriptDetector() *JavaScriptDetector { return &JavaScriptDetector{} }

func (d *JavaScriptDetector) Language() string { return LangJavaScript }

// jsSourceExts are the extensions counted as javascript heuristics.
var jsSourceExts = []string{".js", ".mjs", ".cjs", ".ts", ".jsx", ".tsx"}

func (d *JavaScriptDetector) Recognizes(name string) bool {
	switch name {
	case "package.json", ".nvmrc", ".node-version", ".bun-version",
		"package-lock.json", "yarn.lock", "pnpm-lock.yaml",
		"bun.lock", "bun.lockb", "deno.lock":
		return true
	}
	for _, ext := range jsSourceExts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func (d *JavaScriptDetector) Extract(path string, data []byte) ([]Signal, error) {
	switch baseName(path) {
	case "package.json":
		return d.extractPackageJSON(path, data)
	case ".nvmrc", ".node-version", ".bun-version":
		return extractVersionFile(LangJavaScript, path, WeightManifest, data)
	case "package-lock.json":
		return d.extractPackageLock(path, data)
	case "pnpm-lock.yaml":
		return d.extractPnpmLock(path, data)
	case "yarn.lock":
		return []Signal{{Language: LangJavaScript, Source: path, Weight: WeightLockfile, Manager: "yarn"}}, nil
	case "bun.lock", "bun.lockb":
		return []Signal{{Language: LangJavaScript, Source: path, Weight: WeightLockfile, Manager: "bun"}}, nil
	case "deno.lock":
		return []Signal{{Language: LangJavaScript, Source: path, Weight: WeightLockfile, Manager: "deno"}}, nil
	}
	return []Signal{{Language: LangJavaScript, Source: path, Weight: WeightHeuristic}}, nil
}

// extractPackageJSON reads engines.node (engines.bun as fallback) and the
// packageManager field.
func (d *JavaScriptDetector) extractPackageJSON(path string, data []byte) ([]Signal, error) {
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{Path: path, Err: errInvalidJSON}
	}

	presence := Signal{Language: LangJavaScript, Source: path, Weight: WeightManifest}
	presence.Manager = managerFromField(gjson.GetBytes(data, "packageManager").String())

	engine := gjson.GetBytes(data, "engines.node").String()
	if engine == "" {
		engine = gjson.GetBytes(data, "engines.bun").String()
	}
	if engine == "" {
		return []Signal{presence}, nil
	}

	req, err := semver.ParseExpr(engine)
	if err != nil {
		return []Signal{presence}, &ParseError{Path: path, Err: err}
	}
	presence.Requirement = &req
	return []Signal{presence}, nil
}

// extractPackageLock reads the root package entry's engines.node, which npm
// copies from the manifest at lock time.
func (d *JavaScriptDetector) extractPackageLock(path string, data []byte) ([]Signal, error) {
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{Path: path, Err: errInvalidJSON}
	}
	// The root entry is keyed by the empty string, which gjson paths
	// cannot address directly.
	var engine string
	gjson.GetBytes(data, "packages").ForEach(func(k, v gjson.Result) bool {
		if k.String() == "" {
			engine = v.Get("engines.node").String()
			return false
		}
		return true
	})
	return signalFromVersion(LangJavaScript, path, WeightLockfile, "npm", engine)
}

// extractPnpmLock validates the YAML so a corrupt lockfile surfaces as a
// warning instead of silently counting as presence.
func (d *JavaScriptDetector) extractPnpmLock(path string, data []byte) ([]Signal, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return []Signal{{Language: LangJavaScript, Source: path, Weight: WeightLockfile, Manager: "pnpm"}}, nil
}

// managerFromField parses a package.json packageManager value such as
// "pnpm@9.1.0" down to the manager name.
func managerFromField(field string) string {
	if field == "" {
		return ""
	}
	name, _, _ := strings.Cut(field, "@")
	switch name {
	case "npm", "pnpm", "yarn", "bun":
		return name
	}
	return ""
}
