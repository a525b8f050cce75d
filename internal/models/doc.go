// Package models defines domain entities shared across the snippet vault client.
//
// The package contains two categories of types:
//
// 1. Service DTOs: structs mirroring the vault service's JSON payloads
//   - [Snippet] : A titled block of source code tagged with a language
//   - [Tag] : A snippet tag with its usage count
//   - [Identity] : The persisted display identity of the signed-in user
//
// 2. Client-side values derived from or feeding those DTOs
//   - [Draft] : Create/edit form state with required-field validation
//   - [LanguageCount] : One row of the per-language facet over a collection
//   - [Timestamp] : Timestamp decoding tolerant of the service's zone-less format
//
// The authoritative copy of every snippet lives server-side; these types only
// describe what the client holds between fetches.
package models
