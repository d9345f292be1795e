// Package classify maps a raw query string to the kind of object it names and the
// network it belongs to. Everything here is pure and safe for concurrent use.
package classify

import (
	"regexp"
	"strings"

	"github.com/vietddude/chainlens/internal/core/domain"
)

var (
	ethTxRe      = regexp.MustCompile(`^0x[a-fA-F0-9]{64}$`)
	ethAddrRe    = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)
	bareHex64Re  = regexp.MustCompile(`^[a-fA-F0-9]{64}$`)
	btcLegacyRe  = regexp.MustCompile(`^(1|3)[a-zA-Z0-9]{25,62}$`)
	btcBech32Re  = regexp.MustCompile(`(?i)^bc1[ac-hj-np-z02-9]{11,90}$`)
	ltcLegacyRe  = regexp.MustCompile(`^(L|M)[a-zA-Z0-9]{25,62}$`)
	ltcBech32Re  = regexp.MustCompile(`(?i)^ltc1[ac-hj-np-z02-9]{11,90}$`)
	tronAddrRe   = regexp.MustCompile(`^T[a-zA-Z0-9]{33}$`)
	tonFriendRe  = regexp.MustCompile(`^(EQ|UQ|kQ)[A-Za-z0-9_-]{46}$`)
	tonRawAddrRe = regexp.MustCompile(`^-?\d+:[a-fA-F0-9]{64}$`)
)

// rule is one step of auto detection. Order matters because patterns overlap.
type rule struct {
	re     *regexp.Regexp
	result domain.Classification
}

var autoRules = []rule{
	{ethTxRe, domain.Classification{Kind: domain.KindTx, Network: domain.NetworkETH}},
	{ethAddrRe, domain.Classification{Kind: domain.KindAddress, Network: domain.NetworkETH}},
	// BTC, LTC and TRON all use bare 64-hex ids; only a provider can tell them apart.
	{bareHex64Re, domain.Classification{Kind: domain.KindTx, Network: domain.NetworkUnknown}},
	{btcLegacyRe, domain.Classification{Kind: domain.KindAddress, Network: domain.NetworkBTC}},
	{btcBech32Re, domain.Classification{Kind: domain.KindAddress, Network: domain.NetworkBTC}},
	{ltcLegacyRe, domain.Classification{Kind: domain.KindAddress, Network: domain.NetworkLTC}},
	{ltcBech32Re, domain.Classification{Kind: domain.KindAddress, Network: domain.NetworkLTC}},
	{tronAddrRe, domain.Classification{Kind: domain.KindAddress, Network: domain.NetworkTRON}},
	{tonFriendRe, domain.Classification{Kind: domain.KindAddress, Network: domain.NetworkTON}},
	{tonRawAddrRe, domain.Classification{Kind: domain.KindAddress, Network: domain.NetworkTON}},
}

var unknown = domain.Classification{Kind: domain.KindUnknown, Network: domain.NetworkUnknown}

// Detect classifies raw by trying every known pattern in order.
func Detect(raw string) domain.Classification {
	v := strings.TrimSpace(raw)
	if v == "" {
		return unknown
	}
	for _, r := range autoRules {
		if r.re.MatchString(v) {
			return r.result
		}
	}
	return unknown
}

// Classify classifies raw, honouring a forced network. A forced network only decides
// the kind within that network's conventions; the input is not re-validated.
func Classify(raw string, forced domain.Network) domain.Classification {
	v := strings.TrimSpace(raw)

	switch forced {
	case domain.NetworkETH:
		if ethTxRe.MatchString(v) {
			return domain.Classification{Kind: domain.KindTx, Network: forced}
		}
		return domain.Classification{Kind: domain.KindAddress, Network: forced}
	case domain.NetworkBTC, domain.NetworkLTC, domain.NetworkTRON:
		if bareHex64Re.MatchString(v) {
			return domain.Classification{Kind: domain.KindTx, Network: forced}
		}
		return domain.Classification{Kind: domain.KindAddress, Network: forced}
	case domain.NetworkTON:
		// TON transaction ids vary in shape; users almost always paste an account.
		return domain.Classification{Kind: domain.KindAddress, Network: forced}
	}

	return Detect(v)
}
