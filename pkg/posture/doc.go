// Package posture defines the device posture data model: the normalized,
// immutable snapshot of a device's security-relevant state that the
// compliance engine evaluates against policy.
//
// A Record is produced by an external collector and is never mutated once
// created; a new observation produces a new Record. Each Record carries a
// content fingerprint used as part of the result cache key, so two
// observations with identical security attributes share cached evaluation
// results regardless of when they were collected.
package posture
