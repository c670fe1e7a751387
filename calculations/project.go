package calculations

import (
	"strings"

	"github.com/samber/lo"

	"github.com/penwyp/claudestat/models"
)

// projectMarkers are directories that usually hold checkouts; the component after one is the project
var projectMarkers = []string{"Github", "github", "Projects", "projects", "code", "Code", "dev", "Development", "src", "repos"}

// boringDirs are build and source subdirectories that never name a project
var boringDirs = []string{"src", "scripts", "lib", "bin", "dist", "build", "out", "target"}

// ExtractProjectName derives a short project name from a working directory path.
//
//	/home/me/Github/widget-app/src/main -> widget-app
//	/tmp/scripts                        -> tmp
func ExtractProjectName(path string) string {
	components := lo.Compact(strings.Split(path, "/"))

	for i, c := range components {
		if lo.Contains(projectMarkers, c) && i+1 < len(components) {
			return components[i+1]
		}
	}

	for i := len(components) - 1; i >= 0; i-- {
		if !lo.Contains(boringDirs, components[i]) {
			return components[i]
		}
	}

	if len(components) > 0 {
		return components[len(components)-1]
	}
	return models.UnknownName
}
