package classify

import (
	"bytes"
	"crypto/sha256"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mr-tron/base58"

	"github.com/vietddude/chainlens/internal/core/domain"
	"github.com/vietddude/chainlens/internal/infra/chain/ton"
)

// Base58check version bytes of legacy addresses.
var (
	btcVersions  = []byte{0x00, 0x05}
	ltcVersions  = []byte{0x30, 0x32, 0x05}
	tronVersions = []byte{0x41}
)

// Conforms reports whether value is well formed for the kind and network of c. It is
// stricter than Detect: checksums are verified where the format has one.
func Conforms(c domain.Classification, value string) bool {
	v := strings.TrimSpace(value)

	if c.Kind == domain.KindTx {
		switch c.Network {
		case domain.NetworkETH:
			return ethTxRe.MatchString(v)
		case domain.NetworkBTC, domain.NetworkLTC, domain.NetworkTRON:
			return bareHex64Re.MatchString(v)
		}
		return true
	}

	switch c.Network {
	case domain.NetworkETH:
		return strings.HasPrefix(v, "0x") && common.IsHexAddress(v)
	case domain.NetworkBTC:
		return btcBech32Re.MatchString(v) || base58Check(v, btcVersions)
	case domain.NetworkLTC:
		return ltcBech32Re.MatchString(v) || base58Check(v, ltcVersions)
	case domain.NetworkTRON:
		return base58Check(v, tronVersions)
	case domain.NetworkTON:
		_, err := ton.ParseAddress(v)
		return err == nil
	}
	return false
}

// base58Check decodes a 25 byte version+hash160+checksum payload.
func base58Check(s string, versions []byte) bool {
	raw, err := base58.Decode(s)
	if err != nil || len(raw) != 25 {
		return false
	}
	if bytes.IndexByte(versions, raw[0]) < 0 {
		return false
	}
	payload, checksum := raw[:21], raw[21:]
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	return bytes.Equal(second[:4], checksum)
}
