package ton

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	friendlyLen = 48
	decodedLen  = 36

	tagBounceable    byte = 0x11
	tagNonBounceable byte = 0x51
	tagTestOnly      byte = 0x80
)

var rawFormRe = regexp.MustCompile(`^-?\d+:[0-9a-fA-F]{64}$`)

// ErrInvalidAddress is returned when a string is neither a raw nor a friendly TON address.
var ErrInvalidAddress = errors.New("invalid ton address")

// Address is a decoded TON account identifier.
type Address struct {
	Workchain int32
	Hash      [32]byte
}

// ParseAddress accepts the raw form `wc:hex` or the 48-character friendly form
// (url-safe or standard base64) and verifies the friendly checksum.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if rawFormRe.MatchString(s) {
		return parseRaw(s)
	}
	return parseFriendly(s)
}

func parseRaw(s string) (Address, error) {
	wcPart, hashPart, _ := strings.Cut(s, ":")
	wc, err := strconv.ParseInt(wcPart, 10, 32)
	if err != nil {
		return Address{}, fmt.Errorf("%w: workchain: %v", ErrInvalidAddress, err)
	}
	var a Address
	a.Workchain = int32(wc)
	if _, err := hex.Decode(a.Hash[:], []byte(hashPart)); err != nil {
		return Address{}, fmt.Errorf("%w: hash: %v", ErrInvalidAddress, err)
	}
	return a, nil
}

func parseFriendly(s string) (Address, error) {
	if len(s) != friendlyLen {
		return Address{}, fmt.Errorf("%w: length %d", ErrInvalidAddress, len(s))
	}
	urlSafe := strings.NewReplacer("+", "-", "/", "_").Replace(s)
	data, err := base64.RawURLEncoding.DecodeString(urlSafe)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(data) != decodedLen {
		return Address{}, fmt.Errorf("%w: decoded length %d", ErrInvalidAddress, len(data))
	}

	tag := data[0] &^ tagTestOnly
	if tag != tagBounceable && tag != tagNonBounceable {
		return Address{}, fmt.Errorf("%w: tag 0x%02x", ErrInvalidAddress, data[0])
	}
	if binary.BigEndian.Uint16(data[34:]) != crc16(data[:34]) {
		return Address{}, fmt.Errorf("%w: checksum mismatch", ErrInvalidAddress)
	}

	var a Address
	a.Workchain = int32(int8(data[1]))
	copy(a.Hash[:], data[2:34])
	return a, nil
}

// Raw returns the canonical `workchain:lowercase-hex` form.
func (a Address) Raw() string {
	return fmt.Sprintf("%d:%s", a.Workchain, hex.EncodeToString(a.Hash[:]))
}

// Friendly returns the bounceable url-safe display form.
func (a Address) Friendly() string {
	buf := make([]byte, decodedLen)
	buf[0] = tagBounceable
	buf[1] = byte(int8(a.Workchain))
	copy(buf[2:34], a.Hash[:])
	binary.BigEndian.PutUint16(buf[34:], crc16(buf[:34]))
	return base64.RawURLEncoding.EncodeToString(buf)
}

// Canonical returns the canonical raw form of any TON encoding. Malformed input never
// fails: it degrades to the lowercased input so it can still serve as a comparison key.
func Canonical(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	a, err := ParseAddress(s)
	if err != nil {
		return strings.ToLower(s)
	}
	return a.Raw()
}

// Friendly returns the friendly display form of s, or s itself when it cannot be decoded.
func Friendly(s string) string {
	s = strings.TrimSpace(s)
	a, err := ParseAddress(s)
	if err != nil {
		return s
	}
	return a.Friendly()
}

// SameAccount reports whether two encodings name the same account.
func SameAccount(a, b string) bool {
	ca, cb := Canonical(a), Canonical(b)
	return ca != "" && ca == cb
}

// crc16 is CRC-16/XMODEM as used by the friendly address checksum.
func crc16(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
