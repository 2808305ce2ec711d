// Package rosterfakes provides in-memory roster collaborators for tests.
// Every fake is safe for concurrent use and can be told to fail per
// identity or target.
package rosterfakes
