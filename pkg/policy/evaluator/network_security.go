package evaluator

import (
	"fmt"
	"strings"

	"northgate/sentinel/pkg/policy"
	"northgate/sentinel/pkg/posture"
)

// NetworkSecurity evaluates the network security requirement group.
func NetworkSecurity(rec *posture.Record, req policy.NetworkSecurityRequirements) []Outcome {
	var outcomes []Outcome

	if o, ok := booleanControl(PathVPNRequired, req.VPNRequired,
		rec.Network.VPNConnected, "vpn tunnel is not established"); ok {
		outcomes = append(outcomes, o)
	}

	if len(req.RestrictedNetworks) > 0 {
		tag := rec.Network.CurrentNetworkTag
		o := Outcome{
			Path:     PathRestrictedNetwork,
			Pass:     true,
			Expected: req.RestrictedNetworks,
			Actual:   tag,
		}
		for _, restricted := range req.RestrictedNetworks {
			if strings.EqualFold(tag, restricted) {
				o.Pass = false
				o.Reason = fmt.Sprintf("device is on restricted network %q", tag)
				break
			}
		}
		outcomes = append(outcomes, o)
	}

	// An empty allow list means no restriction.
	if len(req.AllowedCountries) > 0 {
		country := rec.Network.SourceCountry
		o := Outcome{
			Path:     PathAllowedCountries,
			Expected: req.AllowedCountries,
			Actual:   country,
		}
		for _, allowed := range req.AllowedCountries {
			if strings.EqualFold(country, allowed) {
				o.Pass = true
				break
			}
		}
		if !o.Pass {
			o.Reason = fmt.Sprintf("source country %q is not in the allowed list", country)
		}
		outcomes = append(outcomes, o)
	}

	return outcomes
}
