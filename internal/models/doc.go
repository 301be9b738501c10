// Package models defines the core domain entities of the chit fund ledger.
//
// # Entities
//
//   - Group: a rotating-savings group with a fixed contribution amount,
//     a fixed member count, and a current cycle counter
//   - User: a member of a group; the foreman additionally has login
//     credentials
//   - Contribution: one member's payment for one cycle period
//   - Settlement: the single payout event of one cycle period
//   - NotificationLog: the audit record of one outbound message attempt
//
// # Design Principles
//
// 1. **Append-only ledger**: Contribution and Settlement are written once
// by the cycle engine and never mutated or deleted, so the ledger stays
// auditable.
//
// 2. **Decimal money**: all monetary fields use shopspring decimals, never
// floats, so repeated dividend reads are stable.
//
// 3. **Avoid circular references**: relationships use ID strings instead
// of pointers.
package models
