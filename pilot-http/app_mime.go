package pilot_http

import (
	"path"
	"strings"
)

const MimeJson = "application/json"

var MimeTypes = map[string]string{
	".htm":  "text/html",
	".html": "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
	".txt":  "text/plain",
	".text": "text/plain",
	".cgi":  "text/html",
	".xml":  "text/xml",
	".json": MimeJson,
	".gif":  "image/gif",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".swf":  "application/x-shockwave-flash",
	".ico":  "image/x-icon",
	".ttf":  "application/x-font-truetype",
	".otf":  "application/x-font-opentype",
	".woff": "application/font-woff",
	".eot":  "application/vnd.ms-fontobject",
	".svg":  "image/svg+xml",
}

// MimeTypeFor returns the content type for a file-like path, or "" when the
// path names a REST resource.
func MimeTypeFor(p string) string {
	return MimeTypes[strings.ToLower(path.Ext(p))]
}
