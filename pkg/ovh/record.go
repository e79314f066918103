package ovh

import (
	"fmt"
	"net"
	"strings"

	"github.com/miekg/dns"

	"restops/pkg/enums"
)

// RecordType lists the zone record types accepted by the OVH API.
var RecordType = enums.Register("ovh_record_type",
	enums.M("A", "A"),
	enums.M("AAAA", "AAAA"),
	enums.M("CAA", "CAA"),
	enums.M("CNAME", "CNAME"),
	enums.M("DKIM", "DKIM"),
	enums.M("DMARC", "DMARC"),
	enums.M("DNAME", "DNAME"),
	enums.M("LOC", "LOC"),
	enums.M("MX", "MX"),
	enums.M("NAPTR", "NAPTR"),
	enums.M("NS", "NS"),
	enums.M("PTR", "PTR"),
	enums.M("SPF", "SPF"),
	enums.M("SRV", "SRV"),
	enums.M("SSHFP", "SSHFP"),
	enums.M("TLSA", "TLSA"),
	enums.M("TXT", "TXT"),
)

// DKIM and DMARC are OVH pseudo types stored as TXT.
var pseudoTypes = map[string]uint16{
	"DKIM":  dns.TypeTXT,
	"DMARC": dns.TypeTXT,
}

// Record is a zone record as returned by GET /domain/zone/{zone}/record/{id}.
type Record struct {
	ID        int64  `json:"id,omitempty"`
	Zone      string `json:"zone,omitempty"`
	SubDomain string `json:"subDomain"`
	FieldType string `json:"fieldType"`
	Target    string `json:"target"`
	TTL       int64  `json:"ttl"`
}

// String renders the record the way a zone file line reads.
func (r Record) String() string {
	return fmt.Sprintf("%s IN %s %s", r.SubDomain, r.FieldType, r.Target)
}

// RRType returns the DNS wire type of fieldType.
func RRType(fieldType string) (uint16, error) {
	name, err := RecordType.Parse(fieldType)
	if err != nil {
		return 0, err
	}
	if t, ok := pseudoTypes[name]; ok {
		return t, nil
	}
	t, ok := dns.StringToType[name]
	if !ok {
		return 0, fmt.Errorf("unknown record type %q", fieldType)
	}
	return t, nil
}

// CheckTarget rejects targets that can never be valid for the record type.
// Only address and host-name records are checked; free-form data is passed
// through to the API.
func CheckTarget(fieldType, target string) error {
	rr, err := RRType(fieldType)
	if err != nil {
		return err
	}
	target = strings.TrimSpace(target)
	if target == "" {
		return fmt.Errorf("target is required")
	}

	switch rr {
	case dns.TypeA:
		if ip := net.ParseIP(target); ip == nil || ip.To4() == nil {
			return fmt.Errorf("target %q is not an IPv4 address", target)
		}
	case dns.TypeAAAA:
		if ip := net.ParseIP(target); ip == nil || ip.To4() != nil {
			return fmt.Errorf("target %q is not an IPv6 address", target)
		}
	case dns.TypeCNAME, dns.TypeDNAME, dns.TypeNS, dns.TypePTR:
		if _, ok := dns.IsDomainName(target); !ok {
			return fmt.Errorf("target %q is not a domain name", target)
		}
	}
	return nil
}
