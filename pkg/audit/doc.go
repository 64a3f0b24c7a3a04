// Package audit defines the compliance audit trail: one event per device
// status transition, recorded for downstream logging and alerting.
//
// The engine emits an event only when a device's overall status actually
// changes, never once per evaluation, so a noisy collector cannot cause an
// alert storm. Emission is asynchronous: a slow or unavailable sink delays
// nothing on the evaluation path. Delivery guarantees beyond the local
// store (fan-out, at-least-once to external systems) belong to downstream
// consumers.
package audit
