package cache

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// KeySeparator defines the delimiter used between cache key segments.
const KeySeparator = ":"

// maxSegmentLen bounds free text segments. Longer ones are replaced by
// their xxhash digest.
const maxSegmentLen = 64

// KeySerializer builds a cache key from a kind name and arguments.
// It is responsible for producing stable keys across calls and processes.
type KeySerializer interface {
	SerializeKey(kind string, args ...any) string
}

type namespacedKeySerializer struct {
	namespace string
}

// NewKeySerializer returns a serializer that prefixes every key with
// namespace, matching the prefix the backends clear on EvictAll.
func NewKeySerializer(namespace string) KeySerializer {
	return &namespacedKeySerializer{namespace: namespace}
}

// Prefix returns the namespace prefix shared by every key built by s.
func Prefix(s KeySerializer) string {
	return s.SerializeKey("")
}

// SerializeKey joins the namespace, kind and arguments.
func (s *namespacedKeySerializer) SerializeKey(kind string, args ...any) string {
	var b strings.Builder
	b.WriteString(s.namespace)
	b.WriteString(KeySeparator)
	b.WriteString(kind)
	for _, arg := range args {
		b.WriteString(KeySeparator)
		b.WriteString(serializeSegment(arg))
	}
	return b.String()
}

func serializeSegment(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case string:
		return boundSegment(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case fmt.Stringer:
		return boundSegment(x.String())
	default:
		return boundSegment(fmt.Sprintf("%v", x))
	}
}

func boundSegment(s string) string {
	if len(s) <= maxSegmentLen && !strings.Contains(s, KeySeparator) {
		return s
	}
	return "h" + strconv.FormatUint(xxhash.Sum64String(s), 16)
}
