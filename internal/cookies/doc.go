// Package cookies locates and inspects Netscape-format cookie jars and
// aggregates browser cookie availability.
//
// Validation is a freshness heuristic: it proves a jar contains unexpired
// YouTube cookies, not that the session still authenticates.
package cookies
