package flake

import (
	"fmt"

	"github.com/indaco/devflake/internal/semver"
)

// Attribute inference follows nixpkgs naming: Go and Python toolchains are
// keyed by major/minor, Node.js by major, and Rust toolchains come from
// rust-overlay pinned to an exact triple. A requirement that lacks the
// needed components yields no attribute and the generic fallback is used.

func goAttrFromRequirement(req *semver.Requirement) string {
	major, minor, _, ok := anchored(req)
	if !ok || minor < 0 {
		return ""
	}
	return fmt.Sprintf("go_%d_%d", major, minor)
}

func pythonAttrFromRequirement(req *semver.Requirement) string {
	major, minor, _, ok := anchored(req)
	if !ok || minor < 0 {
		return ""
	}
	return fmt.Sprintf("python%d%d", major, minor)
}

func nodeAttrFromRequirement(req *semver.Requirement) string {
	major, _, _, ok := anchored(req)
	if !ok {
		return ""
	}
	return fmt.Sprintf("nodejs_%d", major)
}

func rustVersionFromRequirement(req *semver.Requirement) string {
	major, minor, patch, ok := anchored(req)
	if !ok || minor < 0 || patch < 0 {
		return ""
	}
	return fmt.Sprintf("%d.%d.%d", major, minor, patch)
}

func anchored(req *semver.Requirement) (major, minor, patch int, ok bool) {
	if req == nil {
		return 0, 0, 0, false
	}
	return req.EffectiveVersion()
}
