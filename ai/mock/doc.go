// Package mock provides test doubles for the ai interfaces.
//
// Each mock exposes injectable ...Func fields for behavior customization and
// call counts for assertions. Defaults are deterministic so tests stay
// reproducible without external services.
package mock
