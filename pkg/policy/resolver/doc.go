// Package resolver determines which policy definitions apply to a device.
//
// Assignments (device to user/groups) are owned by an external directory
// system and reached through the ScopeDirectory interface. The resolver
// matches the device's memberships against each policy's scope and returns
// the applicable set ordered by specificity: user-scoped policies first,
// then group-scoped, then the all-devices defaults. The order affects only
// how results are presented; combination treats every applicable policy as
// mandatory.
//
// A directory lookup failure is a resolution error, never an empty result:
// treating "we could not look the device up" as "no policies apply" would
// incorrectly report the device Compliant.
package resolver
