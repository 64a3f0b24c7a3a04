package posture

// Validate checks that every required field of the record is present and
// well-formed. A nil or invalid record returns a *ValidationError listing
// each offending field; callers must treat that as "posture unavailable"
// and fail closed rather than skip the device.
//
// Unknown extra fields supplied by the collector are ignored at decode time;
// validation only concerns the fields the evaluators read.
func Validate(r *Record) error {
	if r == nil {
		return &ValidationError{Fields: []string{"<nil record>"}}
	}

	var fields []string

	if r.DeviceID == "" {
		fields = append(fields, "deviceId (empty)")
	}
	if r.ObservedAt.IsZero() {
		fields = append(fields, "observedAt (zero)")
	}
	if !r.OS.Family.Valid() {
		fields = append(fields, "os.family (unknown: "+string(r.OS.Family)+")")
	}
	if r.OS.Version == "" {
		fields = append(fields, "os.version (empty)")
	}
	if r.Authentication.PasswordAgeDays < 0 {
		fields = append(fields, "authentication.passwordAgeDays (negative)")
	}
	if r.Authentication.RecentFailedLogins < 0 {
		fields = append(fields, "authentication.recentFailedLogins (negative)")
	}

	if len(fields) > 0 {
		return &ValidationError{DeviceID: r.DeviceID, Fields: fields}
	}
	return nil
}
