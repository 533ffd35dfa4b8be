// Package models defines the core domain models for SplitTON.
//
// # Models
//
//   - Profile: a registered user, linked to a Telegram account
//   - Transaction: one recorded expense (a receipt, a voice note, a text message)
//   - Obligation: one participant's debt for one transaction (payer/payee/amount/status)
//   - Friend: a nickname a user assigns to another registered user
//
// # Design Principles
//
//  1. **Append-only obligations**: an Obligation is created once and mutated
//     exactly once, from pending to paid. Settlement history is never rewritten.
//  2. **Explicit identity**: every operation that is scoped to a user takes the
//     profile ID as a parameter. Nothing reads the current user from ambient state.
//  3. **Decimal money**: amounts are decimal.Decimal end to end. Floats never
//     touch a balance.
//  4. **Avoid circular references**: relationships are ID strings, not pointers.
//
// Derived values (counterparty net balances, category totals) are computed on
// read by the settlement package and are never persisted.
package models
