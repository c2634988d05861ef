package common

// ManifestContentType is the content type stored with the published manifest.
const ManifestContentType = "application/json"

// Supported image mime types and the file extensions used for their asset keys.
const (
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
)

// ImageExtensions maps an accepted mime type to its asset key extension.
var ImageExtensions = map[string]string{
	MimeJPEG: "jpg",
	MimePNG:  "png",
}
