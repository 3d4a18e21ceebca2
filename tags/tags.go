// Package tags implements the comment-block metadata codec carried inside a
// single packet: a vendor string plus a multi-valued, case-insensitive
// key/value set, each field length-prefixed with a little-endian uint32.
//
// The packet layout is:
//
//	[optional fixed literal prefix, if configured]
//	4 bytes  length L of vendor string (LE)
//	L bytes  vendor string, UTF-8
//	4 bytes  count C of comment entries (LE)
//	C times:
//	  4 bytes  entry length (LE)
//	  N bytes  entry, UTF-8, "<KEY>=<value>"
//	[optional 1 byte 0x01 framing marker, if configured]
//
// Decode failures are recorded on the validity flag rather than returned as
// errors: callers routinely probe several payload formats against the same
// leading packet, and a mismatch is expected control flow there.
package tags

import (
	"strings"

	"github.com/arloliu/oggcore/endian"
	"github.com/arloliu/oggcore/internal/options"
	"github.com/arloliu/oggcore/page"
)

// DefaultVendor is encoded when no vendor string has been set.
const DefaultVendor = "oggcore - Ogg container library for Go"

// framingByte is the trailing marker required after the entries for payload
// kinds that configure WithFramingBit.
const framingByte = 0x01

// Tags is a mutable comment set plus the codec configuration for one
// payload kind. Keys are normalized to uppercase on every insertion and
// lookup; values accumulate per key in insertion order, and the keys
// themselves keep the order of their first insertion, so encoding is
// deterministic and round-trips preserve observed order.
type Tags struct {
	keys         []string
	comments     map[string][]string
	vendor       string
	packetHeader string
	framingBit   bool
	valid        bool
}

// Option represents a functional option for configuring Tags.
type Option = options.Option[*Tags]

// WithPacketHeader configures a fixed literal prefix that must open the
// encoded packet. Payload kinds that tag their metadata packet with a magic
// string (for example "OpusTags") set it here.
func WithPacketHeader(header string) Option {
	return options.NoError(func(t *Tags) {
		t.packetHeader = header
	})
}

// WithFramingBit requires a single 0x01 byte after the entries. Payload
// kinds that frame their metadata packet set this.
func WithFramingBit() Option {
	return options.NoError(func(t *Tags) {
		t.framingBit = true
	})
}

// WithVendor sets the vendor string. An empty or blank vendor falls back to
// DefaultVendor at encode time.
func WithVendor(vendor string) Option {
	return options.NoError(func(t *Tags) {
		t.vendor = vendor
	})
}

// New creates an empty, valid comment set.
func New(opts ...Option) (*Tags, error) {
	t := &Tags{
		comments: make(map[string][]string),
		valid:    true,
	}
	if err := options.Apply(t, opts...); err != nil {
		return nil, err
	}

	return t, nil
}

// Keys returns all keys in the order of their first insertion.
func (t *Tags) Keys() []string {
	return append([]string(nil), t.keys...)
}

// GetList returns all values associated with key in insertion order, or nil
// if the key is absent.
func (t *Tags) GetList(key string) []string {
	values, ok := t.comments[strings.ToUpper(key)]
	if !ok {
		return nil
	}

	return append([]string(nil), values...)
}

// GetString joins all values associated with key with "; ". The boolean
// reports whether the key is present.
func (t *Tags) GetString(key string) (string, bool) {
	values, ok := t.comments[strings.ToUpper(key)]
	if !ok {
		return "", false
	}

	return strings.Join(values, "; "), true
}

// Add associates a value with key. If value contains one or more
// semicolons it is split on them and each piece is added individually, so
// bulk semicolon-delimited input lands as separate values. Every added
// piece is trimmed of surrounding whitespace.
func (t *Tags) Add(key, value string) {
	if strings.Contains(value, ";") {
		for _, piece := range strings.Split(value, ";") {
			t.Add(key, piece)
		}

		return
	}

	t.addRaw(strings.ToUpper(key), strings.TrimSpace(value))
}

// AddAll associates each value with key, in order.
func (t *Tags) AddAll(key string, values []string) {
	for _, value := range values {
		t.Add(key, value)
	}
}

// addRaw appends value verbatim under the already-normalized key.
func (t *Tags) addRaw(key, value string) {
	if _, ok := t.comments[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.comments[key] = append(t.comments[key], value)
}

// RemoveAll removes every value associated with key.
func (t *Tags) RemoveAll(key string) {
	key = strings.ToUpper(key)
	if _, ok := t.comments[key]; !ok {
		return
	}

	delete(t.comments, key)
	for i, k := range t.keys {
		if k == key {
			t.keys = append(t.keys[:i], t.keys[i+1:]...)
			break
		}
	}
}

// Len returns the total number of comment entries across all keys.
func (t *Tags) Len() int {
	n := 0
	for _, values := range t.comments {
		n += len(values)
	}

	return n
}

// Map returns one string per key, multiple values joined with "; ".
func (t *Tags) Map() map[string]string {
	m := make(map[string]string, len(t.keys))
	for _, key := range t.keys {
		m[key] = strings.Join(t.comments[key], "; ")
	}

	return m
}

// Vendor returns the vendor string, falling back to DefaultVendor when the
// stored vendor is empty or blank.
func (t *Tags) Vendor() string {
	if strings.TrimSpace(t.vendor) == "" {
		return DefaultVendor
	}

	return t.vendor
}

// SetVendor changes the vendor string.
func (t *Tags) SetVendor(vendor string) {
	t.vendor = vendor
}

// PacketHeader returns the configured literal prefix, empty if none.
func (t *Tags) PacketHeader() string {
	return t.packetHeader
}

// FramingBit reports whether the trailing 0x01 marker is configured.
func (t *Tags) FramingBit() bool {
	return t.framingBit
}

// IsValid reports whether the last attempted decode succeeded structurally.
// A freshly created Tags is valid. It also serves as the admission check
// when the Tags is framed onto a page via Page.AddPacket.
func (t *Tags) IsValid() bool {
	return t.valid
}

// ToPacket encodes the comment set into a packet. Entries are written key
// by key in first-insertion order, values in per-key insertion order.
func (t *Tags) ToPacket() *page.Packet {
	engine := endian.GetLittleEndianEngine()
	vendor := t.Vendor()

	b := make([]byte, 0, len(t.packetHeader)+8+len(vendor)+t.Len()*16)
	b = append(b, t.packetHeader...)
	b = engine.AppendUint32(b, uint32(len(vendor)))
	b = append(b, vendor...)
	b = engine.AppendUint32(b, uint32(t.Len()))
	for _, key := range t.keys {
		for _, value := range t.comments[key] {
			entry := key + "=" + value
			b = engine.AppendUint32(b, uint32(len(entry)))
			b = append(b, entry...)
		}
	}
	if t.framingBit {
		b = append(b, framingByte)
	}

	return page.NewPacket(b)
}

// FromPacket decodes the comment set from a packet and reports whether the
// content was structurally valid. On any structural failure (literal prefix
// mismatch, truncated field, entry without '=', framing marker missing, or
// trailing bytes left over) the validity flag is cleared and decoding stops.
//
// Decoded values are stored verbatim: unlike Add, no trimming and no
// semicolon splitting is applied on the decode path.
func (t *Tags) FromPacket(packet *page.Packet) bool {
	t.valid = true
	content := packet.Content()
	pos := 0

	if t.packetHeader != "" {
		if !packet.HeaderMatches(t.packetHeader) {
			t.valid = false

			return false
		}
		pos = len(t.packetHeader)
	}

	vendor, next, ok := readField(content, pos)
	if !ok {
		t.valid = false

		return false
	}
	pos = next
	t.SetVendor(vendor)

	count, next, ok := readUint32(content, pos)
	if !ok {
		t.valid = false

		return false
	}
	pos = next

	for i := uint32(0); i < count; i++ {
		entry, next, ok := readField(content, pos)
		if !ok {
			t.valid = false

			return false
		}
		pos = next

		eq := strings.IndexByte(entry, '=')
		if eq < 0 {
			t.valid = false

			return false
		}
		t.addRaw(strings.ToUpper(entry[:eq]), entry[eq+1:])
	}

	if t.framingBit {
		if pos >= len(content) || content[pos] != framingByte {
			t.valid = false

			return false
		}
		pos++
	}
	if pos != len(content) {
		t.valid = false

		return false
	}

	return true
}

// readUint32 reads a little-endian uint32 at pos, reporting failure when
// fewer than four bytes remain.
func readUint32(content []byte, pos int) (uint32, int, bool) {
	if pos+4 > len(content) {
		return 0, pos, false
	}

	engine := endian.GetLittleEndianEngine()

	return engine.Uint32(content[pos : pos+4]), pos + 4, true
}

// readField reads a uint32-length-prefixed UTF-8 field at pos.
func readField(content []byte, pos int) (string, int, bool) {
	length, pos, ok := readUint32(content, pos)
	if !ok {
		return "", pos, false
	}
	end := pos + int(length)
	if end < pos || end > len(content) {
		return "", pos, false
	}

	return string(content[pos:end]), end, true
}
