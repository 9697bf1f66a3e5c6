// Package model defines the core data structures used throughout shareholders.
//
// This package contains the following main types:
//   - OrgNumber: A 9-digit company organization number
//   - OwnerResponse: The decoded, schema-less registry payload
//   - Field: A logical attribute with its ordered list of JSON key aliases
//   - OwnershipRecord: One output row describing a single owner's stake
//   - Company: The per-identifier working state passed through the pipeline
package model
