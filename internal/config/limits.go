package config

const (
	// MaxFolderNameLength is the maximum length for folder names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxFolderNameLength = 255

	// MaxDocumentTitleLength is the maximum length for document titles.
	MaxDocumentTitleLength = 100

	// MaxUploadSize caps a single image upload (10MB).
	MaxUploadSize = 10 << 20

	// MaxHierarchyDepth bounds how deep folioctl tree renders.
	MaxHierarchyDepth = 4096

	// DefaultRootFolderName names the root folder created by EnsureRoot.
	DefaultRootFolderName = "Default Folder"
)

const (
	// MaxImportSize caps an uploaded import file or archive (50MB).
	MaxImportSize = 50 << 20

	// MaxImportEntrySize caps one file read during an import, after
	// decompression (10MB).
	MaxImportEntrySize = 10 << 20
)
