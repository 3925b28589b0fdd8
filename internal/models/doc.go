// Package models defines the core domain models for Settleroom.
//
// # Models
//
//   - User: a registered account; creators and participants are user IDs
//   - Room: a single shared expense with a creator, total, and shares
//   - Share: one participant's owed/paid portion of a room
//   - Settlement: a payer's claim of payment, pending creator approval
//   - Event: a named grouping of rooms sharing a member roster
//
// # Design principles
//
//  1. Closed enumerations for split type, settlement status, and event
//     role, so invalid states are unrepresentable.
//  2. ID strings instead of pointers for relationships, to avoid
//     circular references.
//  3. Derived state (room settled flag, net balances, simplified
//     transfers) is computed on read, never persisted.
package models
