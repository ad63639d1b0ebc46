// Package models defines the core domain models for billsplit.
//
// A group has at most one active Bill at a time. The bill holds the line
// items and taxes extracted from a receipt photo, plus every member's
// Selections: which items (and how many units) they consumed.
//
// # Models
//
//   - Bill: the active bill of a group (items, taxes, selections)
//   - Item: one extracted line item, identified by its ItemKey (0-based index)
//   - Tax: a named flat surcharge, split evenly across all group members
//   - Selection: one member's claim on one item
//   - User: a registered account; Member is the view of a user inside a group
//   - Group: a set of members with one owner
//
// # Design Principles
//
//  1. Items are identified by index, never by display name
//  2. Currency amounts are decimal.Decimal, rounded only for display
//  3. Relationships use ID strings instead of pointers
package models
