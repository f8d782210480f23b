// Package mimetypes lists the file types accepted as chat attachments.
package mimetypes

import (
	"mime"
	"synaptik/domain"
)

type MIME string

const (
	Unknown   MIME = "unknown"
	TextPlain MIME = "text/plain"

	ApplicationPDF MIME = "application/pdf"
	MSWord         MIME = "application/msword"
	WordDocX       MIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	ImagePNG  MIME = "image/png"
	ImageJPEG MIME = "image/jpeg"
	ImageGIF  MIME = "image/gif"
	ImageWebP MIME = "image/webp"

	VideoMP4       MIME = "video/mp4"
	VideoQuickTime MIME = "video/quicktime"
)

// allowed maps every accepted type to the message type it is sent as.
var allowed = map[MIME]domain.MessageType{
	TextPlain:      domain.TypeFile,
	ApplicationPDF: domain.TypeFile,
	MSWord:         domain.TypeFile,
	WordDocX:       domain.TypeFile,
	ImagePNG:       domain.TypeImage,
	ImageJPEG:      domain.TypeImage,
	ImageGIF:       domain.TypeImage,
	ImageWebP:      domain.TypeImage,
	VideoMP4:       domain.TypeVideo,
	VideoQuickTime: domain.TypeVideo,
}

// Matches strips parameters such as charset before comparing.
func Matches(detected string, expected MIME) (MIME, bool) {
	mt, _, err := mime.ParseMediaType(detected)
	if err != nil {
		return Unknown, false
	}
	return expected, mt == string(expected)
}

// Allowed reports whether a detected content type may be uploaded, and as which message type.
func Allowed(detected string) (MIME, domain.MessageType, bool) {
	mt, _, err := mime.ParseMediaType(detected)
	if err != nil {
		return Unknown, "", false
	}
	messageType, ok := allowed[MIME(mt)]
	if !ok {
		return MIME(mt), "", false
	}
	return MIME(mt), messageType, true
}
