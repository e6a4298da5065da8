// Package middleware contains HTTP middleware for the Fiber application.
//
//   - rayid: assigns every request a ray id, stored in the context and echoed
//     in the X-Ray-ID response header, so every log line of a request can be
//     correlated through logger.WithRayID.
//
// Register rayid first so everything after it can be traced.
package middleware
