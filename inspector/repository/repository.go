package repository

// Project represents information about a detected Java build
type Project struct {
	RootPath    string   // Absolute path to the project root directory
	Type        string   // Build tool of the project (maven, gradle or unknown)
	Name        string   // Name of the project (extracted from build files)
	SourceRoots []string // Directories holding main Java sources
}
