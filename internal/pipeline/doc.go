// Package pipeline turns organization numbers into ownership records.
//
// Each identifier is processed by a Pipeline of Steps: the FetchStep asks the
// registry for the owner payload and the ExtractStep normalizes every
// shareholder entry into an OwnershipRecord. The Aggregator drives the
// pipeline over all identifiers strictly one at a time and records an
// Outcome per identifier, so callers (and tests) can see why a company
// produced no rows without parsing log output.
//
// There is no concurrency here. Identifiers are fetched sequentially and a
// failure for one never affects the others.
package pipeline
