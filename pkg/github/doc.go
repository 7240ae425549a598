// Package github provides the GitHub API access used by the shai-hulud scanner.
// It lists organization members and public user repositories one page at a
// time and classifies failed requests into typed errors.
//
// The package includes:
// - APIClient interface for the two list endpoints
// - Client, a go-github backed implementation with pacing and tracing
// - MemberLister for full organization enumeration
// - ResolveToken for locating the credential used by a run
package github
