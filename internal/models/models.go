package models

// File represents a media file selected for minting
type File struct {
	Name string `json:"name"`
	Type string `json:"type"` // MIME type, e.g. "image/png"
	Size int64  `json:"size"`
	Data []byte `json:"-"`
}

// SizeMB returns the file size in mebibytes
func (f *File) SizeMB() float64 {
	return float64(f.Size) / (1024 * 1024)
}

// UploadMetadata is the metadata attached to a minted IP
type UploadMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Mimetype    string `json:"mimetype"`
	Image       string `json:"image"` // IPFS gateway URL of the pinned file
}

// Notice is a transient user-facing notification
type Notice struct {
	Level       string `json:"level"` // "success", "error", "warning"
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}
