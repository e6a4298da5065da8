// Package tm is the HTTP client for the transportation-management (TM) OData service.
//
// Reads hit the entity sets directly and decode the {"d": {"results": [...]}}
// envelope. Writes first fetch an anti-forgery token and session cookie from
// $metadata and replay both on the POST. Every failure, whether a transport
// error, a timeout or a non-2xx answer, comes back as an *apperr.UpstreamError;
// non-2xx answers carry the status code and the body verbatim.
//
// Freight order keys on the TM side are zero padded to 22 characters. Methods
// that address a single order take a normalize.PaddedID so a normalized store
// key cannot be passed by mistake.
package tm
