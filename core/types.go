package core

import "time"

// Format identifies an image codec.
type Format string

const (
	FormatJPEG    Format = "jpeg"
	FormatPNG     Format = "png"
	FormatGIF     Format = "gif"
	FormatBMP     Format = "bmp"
	FormatTIFF    Format = "tiff"
	FormatWebP    Format = "webp"
	FormatUnknown Format = "unknown"
)

// MediaAsset is the transient in-memory representation of one converted image.
// It exists only for the duration of a single pipeline run and is never
// persisted directly.
type MediaAsset struct {
	Data   []byte
	Format Format
	Width  int
	Height int

	// SourceFormat and SourceBytes describe the raw input, kept for
	// compression-ratio reporting.
	SourceFormat Format
	SourceBytes  int64
}

// Ratio returns the compression ratio (in-out)/in, clamped at zero.
// Output growing past the input is a log curiosity, not an error.
func (a *MediaAsset) Ratio() float64 {
	if a.SourceBytes <= 0 {
		return 0
	}
	r := float64(a.SourceBytes-int64(len(a.Data))) / float64(a.SourceBytes)
	if r < 0 {
		return 0
	}
	return r
}

// UploadResult is the only durable artifact of a successful pipeline run.
type UploadResult struct {
	URL        string
	StorageKey string
	Bytes      int64
	Width      int
	Height     int
	Format     Format
}

// PutOptions selects where and how a sink stores an object.
type PutOptions struct {
	Folder    string
	PublicID  string
	Format    Format // defaults to webp when empty
	Overwrite bool
}

// ObjectInfo is the sink's response shape.  The upload orchestrator translates
// it into an UploadResult so the rest of the system never sees sink vocabulary.
type ObjectInfo struct {
	SecureURL string
	PublicID  string
	Bytes     int64
	Width     int
	Height    int
	Format    Format
}

// Stage names used by pipeline hooks and failure tags.
const (
	StageResolve   = "resolve"
	StageTranscode = "transcode"
	StageUpload    = "upload"
)

// StageResult is what hooks observe after a pipeline stage completes.
type StageResult struct {
	Asset   *MediaAsset   // nil before transcode finishes
	Result  *UploadResult // nil before upload finishes
	Elapsed time.Duration
}
