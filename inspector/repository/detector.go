package repository

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	TypeMaven   = "maven"
	TypeGradle  = "gradle"
	TypeUnknown = "unknown"
)

// mainSources is the conventional location of production sources in Maven and Gradle builds
var mainSources = filepath.Join("src", "main", "java")

var (
	artifactIDRegex  = regexp.MustCompile(`<artifactId>([^<]+)</artifactId>`)
	moduleRegex      = regexp.MustCompile(`<module>([^<]+)</module>`)
	gradleNameRegex  = regexp.MustCompile(`(?:rootProject|project)\.name\s*=\s*['"]([^'"]+)['"]`)
	gradleMatchRegex = regexp.MustCompile(`include\s*\(?\s*((?:['"][^'"]+['"]\s*,?\s*)+)\)?`)
	gradleItemRegex  = regexp.MustCompile(`['"]:?([^'"]+)['"]`)
)

// Detector identifies Java project roots and their source folders
type Detector struct {
	// project root marker files, in priority order
	markers []string
}

// New creates a new project detector instance
func New() *Detector {
	return &Detector{
		markers: []string{
			"pom.xml",             // Maven
			"settings.gradle",     // Gradle multi-project
			"settings.gradle.kts", // Gradle multi-project, Kotlin DSL
			"build.gradle",        // Gradle
			"build.gradle.kts",    // Gradle, Kotlin DSL
		},
	}
}

// DetectProject identifies the project containing path and its source roots.
// A path outside any build is its own single source root.
func (d *Detector) DetectProject(path string) (*Project, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fileInfo, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	startDir := absPath
	if !fileInfo.IsDir() {
		startDir = filepath.Dir(absPath)
	}

	project := &Project{Type: TypeUnknown, RootPath: startDir, SourceRoots: []string{startDir}}
	marker := d.findMarker(startDir)
	if marker == "" {
		// a plain source tree, e.g. src/main/java or a package folder
		return project, nil
	}
	rootPath := startDir
	project.Type = determineProjectType(marker)
	project.Name = extractProjectName(rootPath, marker)
	if roots := sourceRoots(rootPath, marker); len(roots) > 0 {
		project.SourceRoots = roots
	}
	return project, nil
}

// findMarker returns the first build marker present in dir
func (d *Detector) findMarker(dir string) string {
	for _, marker := range d.markers {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return marker
		}
	}
	return ""
}

// sourceRoots lists main source folders of the project and of its declared modules
func sourceRoots(rootPath, marker string) []string {
	var roots []string
	if candidate := filepath.Join(rootPath, mainSources); isDir(candidate) {
		roots = append(roots, candidate)
	}
	for _, module := range extractModules(rootPath, marker) {
		moduleRoot := filepath.Join(rootPath, filepath.FromSlash(module))
		moduleMarker := ""
		if _, err := os.Stat(filepath.Join(moduleRoot, "pom.xml")); err == nil {
			moduleMarker = "pom.xml"
		}
		roots = append(roots, sourceRoots(moduleRoot, moduleMarker)...)
	}
	return roots
}

func extractModules(rootPath, marker string) []string {
	data, err := os.ReadFile(filepath.Join(rootPath, marker))
	if err != nil {
		return nil
	}
	var modules []string
	switch marker {
	case "pom.xml":
		for _, match := range moduleRegex.FindAllSubmatch(data, -1) {
			modules = append(modules, string(match[1]))
		}
	case "settings.gradle", "settings.gradle.kts":
		for _, include := range gradleMatchRegex.FindAllSubmatch(data, -1) {
			for _, item := range gradleItemRegex.FindAllSubmatch(include[1], -1) {
				modules = append(modules, strings.ReplaceAll(string(item[1]), ":", "/"))
			}
		}
	}
	return modules
}

func extractProjectName(rootPath, marker string) string {
	data, err := os.ReadFile(filepath.Join(rootPath, marker))
	if err != nil {
		return filepath.Base(rootPath)
	}
	var matches [][]byte
	if marker == "pom.xml" {
		matches = artifactIDRegex.FindSubmatch(data)
	} else {
		matches = gradleNameRegex.FindSubmatch(data)
	}
	if len(matches) < 2 {
		return filepath.Base(rootPath)
	}
	return string(matches[1])
}

// determineProjectType identifies the build tool based on the marker file
func determineProjectType(marker string) string {
	switch marker {
	case "pom.xml":
		return TypeMaven
	case "settings.gradle", "settings.gradle.kts", "build.gradle", "build.gradle.kts":
		return TypeGradle
	default:
		return TypeUnknown
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
