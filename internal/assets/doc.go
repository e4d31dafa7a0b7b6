// Package assets resolves request paths to files under a fixed asset root and delivers them.
//
// # Resolution
//
// [Resolver.Resolve] turns a URL path into a [Target]:
//   - "/" is served from "/index"
//   - the path is joined onto the root, collapsing "." and ".." segments
//   - a final segment without an extension gets ".html", so "/login" reads login.html
//
// The joined path must stay strictly below the root. The check is anchored on a
// separator boundary, so a root of /srv/web rejects /srv/web-evil and /srv/web.html.
// With symlink resolution enabled the candidate is canonicalized and checked again.
//
// # Content types
//
// [MimeTable] maps lowercase extensions to content types and falls back to
// application/octet-stream. It is built once and only read afterwards.
//
// # Delivery
//
// [Handler] reads the file through a [Reader] off the request goroutine and maps the
// outcome onto exactly one response:
//
//	escapes root      403  "403: Forbidden"
//	missing           404  text/plain "404: File Not Found"
//	other read error  500  text/plain "500: Internal Server Error"
//	ok                200  MimeTable type, raw bytes
package assets
