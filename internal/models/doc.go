// Package models defines the core domain entities for tripledger.
//
// Ownership forms a chain: a User owns Trips, a Trip owns its Members and
// Expenses. Members and Expenses never outlive their Trip and are immutable
// once created. Relationships are expressed as ID strings rather than
// pointers to avoid circular references.
//
// Balances are intentionally absent: they are derived per read by the
// calculator package and never persisted.
package models
