// Package services implements the remote side of gallery reconciliation: the item catalog, the media library index and URL reachability.
//
// # Client
//
// [Client] wraps a resty client with the catalog base URL, credentials and a [rate.Limiter].
// Consumer key pairs are sent as HTTP Basic credentials; a configured token switches the transport to an oauth2 static token source.
// Response bodies may start with a UTF-8 byte order mark, which is stripped before decoding.
//
// # Catalog
//
// [CatalogService] pages the products endpoint 100 items at a time until a short or empty page.
// Listing is all or nothing: a non-2xx page fails with [shared.ErrTransport] and an undecodable page fails with [shared.ErrDecode].
// [CatalogService.PutGallery] returns the response status and leaves non-200 handling to the caller.
//
// # Media Index
//
// [MediaService] searches the media endpoint for at most 10 pages:
//   - By URL: searches the filename and requires an exact source_url match
//   - By title: compares normalized title, slug and filename stem against the normalized query
//
// A non-success page ends the search as "not found".
//
// # Reachability
//
// [ReachabilityService] issues a HEAD request with a 5 second timeout and treats anything but a direct 200 as unreachable.
package services
