package mockingbird

import (
	"github.com/tinylib/msgp/msgp"

	"github.com/synqronlabs/mockingbird/authres"
)

// MessagePack field names mirror the JSON tags.
const (
	mpFromDomainFound = "from_domain_found"
	mpFromDomain      = "from_domain"
	mpSPF             = "spf"
	mpDKIM            = "dkim"
	mpDMARC           = "dmarc"
	mpVerdict         = "verdict"
	mpStatus          = "status"
	mpDetail          = "detail"
	mpCategory        = "category"
	mpDescription     = "description"
)

// ToMessagePack serializes the report to MessagePack bytes. Fields are
// written in a fixed order, so equal reports produce identical bytes.
func (r *Report) ToMessagePack() ([]byte, error) {
	b := make([]byte, 0, 192+len(r.SPF.Detail)+len(r.DKIM.Detail)+len(r.DMARC.Detail)+len(r.Verdict.Description))

	b = msgp.AppendMapHeader(b, 6)
	b = msgp.AppendString(b, mpFromDomainFound)
	b = msgp.AppendBool(b, r.FromDomainFound)
	b = msgp.AppendString(b, mpFromDomain)
	b = msgp.AppendString(b, r.FromDomain)
	b = msgp.AppendString(b, mpSPF)
	b = appendResult(b, r.SPF)
	b = msgp.AppendString(b, mpDKIM)
	b = appendResult(b, r.DKIM)
	b = msgp.AppendString(b, mpDMARC)
	b = appendResult(b, r.DMARC)
	b = msgp.AppendString(b, mpVerdict)
	b = msgp.AppendMapHeader(b, 2)
	b = msgp.AppendString(b, mpCategory)
	b = msgp.AppendString(b, string(r.Verdict.Category))
	b = msgp.AppendString(b, mpDescription)
	b = msgp.AppendString(b, r.Verdict.Description)

	return b, nil
}

func appendResult(b []byte, res authres.Result) []byte {
	b = msgp.AppendMapHeader(b, 2)
	b = msgp.AppendString(b, mpStatus)
	b = msgp.AppendString(b, string(res.Status))
	b = msgp.AppendString(b, mpDetail)
	b = msgp.AppendString(b, res.Detail)
	return b
}

// FromMessagePack deserializes a report from MessagePack bytes. Unknown
// fields are skipped.
func FromMessagePack(data []byte) (*Report, error) {
	var r Report

	sz, bts, err := msgp.ReadMapHeaderBytes(data)
	if err != nil {
		return nil, err
	}

	for i := uint32(0); i < sz; i++ {
		var key []byte
		key, bts, err = msgp.ReadMapKeyZC(bts)
		if err != nil {
			return nil, err
		}

		switch string(key) {
		case mpFromDomainFound:
			r.FromDomainFound, bts, err = msgp.ReadBoolBytes(bts)
		case mpFromDomain:
			r.FromDomain, bts, err = msgp.ReadStringBytes(bts)
		case mpSPF:
			r.SPF, bts, err = readResult(bts)
		case mpDKIM:
			r.DKIM, bts, err = readResult(bts)
		case mpDMARC:
			r.DMARC, bts, err = readResult(bts)
		case mpVerdict:
			r.Verdict, bts, err = readVerdict(bts)
		default:
			bts, err = msgp.Skip(bts)
		}
		if err != nil {
			return nil, err
		}
	}

	return &r, nil
}

func readResult(bts []byte) (authres.Result, []byte, error) {
	var res authres.Result

	sz, bts, err := msgp.ReadMapHeaderBytes(bts)
	if err != nil {
		return res, bts, err
	}

	for i := uint32(0); i < sz; i++ {
		var key []byte
		key, bts, err = msgp.ReadMapKeyZC(bts)
		if err != nil {
			return res, bts, err
		}

		switch string(key) {
		case mpStatus:
			var s string
			s, bts, err = msgp.ReadStringBytes(bts)
			res.Status = authres.Status(s)
		case mpDetail:
			res.Detail, bts, err = msgp.ReadStringBytes(bts)
		default:
			bts, err = msgp.Skip(bts)
		}
		if err != nil {
			return res, bts, err
		}
	}

	return res, bts, nil
}

func readVerdict(bts []byte) (Verdict, []byte, error) {
	var v Verdict

	sz, bts, err := msgp.ReadMapHeaderBytes(bts)
	if err != nil {
		return v, bts, err
	}

	for i := uint32(0); i < sz; i++ {
		var key []byte
		key, bts, err = msgp.ReadMapKeyZC(bts)
		if err != nil {
			return v, bts, err
		}

		switch string(key) {
		case mpCategory:
			var c string
			c, bts, err = msgp.ReadStringBytes(bts)
			v.Category = Category(c)
		case mpDescription:
			v.Description, bts, err = msgp.ReadStringBytes(bts)
		default:
			bts, err = msgp.Skip(bts)
		}
		if err != nil {
			return v, bts, err
		}
	}

	return v, bts, nil
}
