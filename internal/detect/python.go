package detect

import (
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
)

// PythonDetector recognizes Python markers: pyproject.toml, .python-version,
// Pipfile, setup.py, the pipenv/poetry/uv/pdm lockfiles, .py source files,
// and python shebangs on extensionless scripts.
type PythonDetector struct{}

func NewPythonDetector() *PythonDetector { return &PythonDetector{} }

func (d *PythonDetector) Language() string { return LangPython }

var pythonRequiresRe = regexp.MustCompile(`python_requires\s*=\s*["']([^"']+)["']`)

func (d *PythonDetector) Recognizes(name string) bool {
	switch name {
	case "pyproject.toml", ".python-version", "Pipfile", "setup.py",
		"Pipfile.lock", "poetry.lock", "uv.lock", "pdm.lock":
		return true
	}
	if strings.HasSuffix(name, ".py") {
		return true
	}
	// Extensionless files may carry a python shebang.
	return !strings.Contains(name, ".")
}

func (d *PythonDetector) Extract(path string, data []byte) ([]Signal, error) {
	switch baseName(path) {
	case "pyproject.toml":
		return d.extractPyproject(path, data)
	case ".python-version":
		return extractVersionFile(LangPython, path, WeightManifest, data)
	case "Pipfile":
		return d.extractPipfile(path, data)
	case "setup.py":
		return d.extractSetupPy(path, data)
	case "Pipfile.lock":
		return d.extractPipfileLock(path, data)
	case "poetry.lock":
		return d.extractPoetryLock(path, data)
	case "uv.lock":
		return d.extractUvLock(path, data)
	case "pdm.lock":
		return []Signal{{Language: LangPython, Source: path, Weight: WeightLockfile, Manager: "pdm"}}, nil
	}

	if strings.HasSuffix(path, ".py") {
		return []Signal{{Language: LangPython, Source: path, Weight: WeightHeuristic}}, nil
	}
	if hasPythonShebang(data) {
		return []Signal{{Language: LangPython, Source: path, Weight: WeightHeuristic}}, nil
	}
	return nil, nil
}

func (d *PythonDetector) extractPyproject(path string, data []byte) ([]Signal, error) {
	var project struct {
		Project struct {
			RequiresPython string `toml:"requires-python"`
		} `toml:"project"`
	}
	if err := toml.Unmarshal(data, &project); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	presence := Signal{Language: LangPython, Source: path, Weight: WeightManifest}
	if project.Project.RequiresPython == "" {
		return []Signal{presence}, nil
	}

	req, err := parseRequirementList(project.Project.RequiresPython)
	if err != nil {
		return []Signal{presence}, &ParseError{Path: path, Err: err}
	}
	presence.Requirement = &req
	return []Signal{presence}, nil
}

func (d *PythonDetector) extractPipfile(path string, data []byte) ([]Signal, error) {
	var pipfile struct {
		Requires struct {
			PythonVersion string `toml:"python_version"`
		} `toml:"requires"`
	}
	if err := toml.Unmarshal(data, &pipfile); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return signalFromVersion(LangPython, path, WeightManifest, "", pipfile.Requires.PythonVersion)
}

func (d *PythonDetector) extractSetupPy(path string, data []byte) ([]Signal, error) {
	presence := Signal{Language: LangPython, Source: path, Weight: WeightManifest}
	m := pythonRequiresRe.FindSubmatch(data)
	if m == nil {
		return []Signal{presence}, nil
	}
	req, err := parseRequirementList(string(m[1]))
	if err != nil {
		return []Signal{presence}, &ParseError{Path: path, Err: err}
	}
	presence.Requirement = &req
	return []Signal{presence}, nil
}

func (d *PythonDetector) extractPipfileLock(path string, data []byte) ([]Signal, error) {
	if !gjson.ValidBytes(data) {
		return nil, &ParseError{Path: path, Err: errInvalidJSON}
	}
	version := gjson.GetBytes(data, "_meta.requires.python_version").String()
	return signalFromVersion(LangPython, path, WeightLockfile, "pipenv", version)
}

func (d *PythonDetector) extractPoetryLock(path string, data []byte) ([]Signal, error) {
	var lock struct {
		Metadata struct {
			PythonVersions string `toml:"python-versions"`
		} `toml:"metadata"`
	}
	if err := toml.Unmarshal(data, &lock); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return signalFromVersion(LangPython, path, WeightLockfile, "poetry", lock.Metadata.PythonVersions)
}

func (d *PythonDetector) extractUvLock(path string, data []byte) ([]Signal, error) {
	var lock struct {
		RequiresPython string `toml:"requires-python"`
	}
	if err := toml.Unmarshal(data, &lock); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return signalFromVersion(LangPython, path, WeightLockfile, "uv", lock.RequiresPython)
}

// signalFromVersion builds a presence signal, attaching a requirement when
// the version expression parses. An unparseable expression downgrades to a
// presence signal plus a warning.
func signalFromVersion(lang, path string, weight Weight, manager, version string) ([]Signal, error) {
	presence := Signal{Language: lang, Source: path, Weight: weight, Manager: manager}
	if strings.TrimSpace(version) == "" {
		return []Signal{presence}, nil
	}
	req, err := parseRequirementList(version)
	if err != nil {
		return []Signal{presence}, &ParseError{Path: path, Err: err}
	}
	presence.Requirement = &req
	return []Signal{presence}, nil
}

func hasPythonShebang(data []byte) bool {
	line, _, _ := strings.Cut(string(data), "\n")
	if !strings.HasPrefix(line, "#!") {
		return false
	}
	return strings.Contains(line, "python")
}
