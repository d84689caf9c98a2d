package extractor

import (
	"encoding/hex"
	"strings"

	"github.com/zeebo/xxh3"
)

// NodeID builds the stable id of a declaration.
//
//	file.src/api/auth.ts
//	function.src/api/auth.ts:validateToken
//	class.src/User.java:com.example.User
//
// The id depends only on its arguments, so re-extracting unchanged text
// always yields the same ids.
func NodeID(kind NodeKind, filePath string, qualifiedName string) string {
	base := string(kind) + "." + filePath
	if qualifiedName == "" {
		return base
	}
	return base + ":" + qualifiedName
}

// ExternalID builds an id for a target whose defining file is unknown, such
// as an import path or a supertype named only by its identifier.
func ExternalID(kind NodeKind, name string) string {
	return string(kind) + "." + name
}

// QualifiedName prefixes name with the namespace when there is one.
func QualifiedName(namespace string, parts ...string) string {
	var b strings.Builder
	if namespace != "" {
		b.WriteString(namespace)
	}
	for _, p := range parts {
		if p == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(p)
	}
	return b.String()
}

// Checksum is the content checksum recorded on file nodes and in the
// incremental sync table.
func Checksum(content []byte) string {
	h := xxh3.New()
	_, _ = h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}
