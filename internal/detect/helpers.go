package detect

import (
	"strings"

	"github.com/indaco/devflake/internal/semver"
)

// baseName returns the last segment of a slash-separated path.
func baseName(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

// extractVersionFile handles plain version files such as .go-version and
// .nvmrc: the first non-empty, non-comment line is the requirement. An
// empty or unparseable file still attests presence.
func extractVersionFile(lang, path string, weight Weight, data []byte) ([]Signal, error) {
	presence := Signal{Language: lang, Source: path, Weight: weight}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		req, err := semver.Parse(line)
		if err != nil {
			return []Signal{presence}, &ParseError{Path: path, Err: err}
		}
		presence.Requirement = &req
		return []Signal{presence}, nil
	}
	return []Signal{presence}, nil
}

// parseRequirementList handles comma-separated constraint lists such as
// ">=3.9,<3.13" (pyproject requires-python). The first requirement with a
// usable lower bound wins; failing that, the first parseable one.
func parseRequirementList(s string) (semver.Requirement, error) {
	var (
		fallback semver.Requirement
		found    bool
	)
	for _, part := range strings.Split(s, ",") {
		req, err := semver.ParseExpr(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		if _, _, _, ok := req.EffectiveVersion(); ok {
			return req, nil
		}
		if !found {
			fallback = req
			found = true
		}
	}
	if found {
		return fallback, nil
	}
	return semver.Requirement{}, errNoParseableRequirement
}
