// Package baseurl validates and canonicalizes the AntiHub server base URL.
// Every value it accepts can be joined with an absolute path suffix such as
// "/api/health" without producing a double slash.
package baseurl
