package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeID(t *testing.T) {
	assert.Equal(t, "file.src/api/auth.ts", NodeID(KindFile, "src/api/auth.ts", ""))
	assert.Equal(t, "function.src/api/auth.ts:validateToken", NodeID(KindFunction, "src/api/auth.ts", "validateToken"))
	assert.Equal(t, "class.src/User.java:com.example.User", NodeID(KindClass, "src/User.java", "com.example.User"))
}

func TestExternalID(t *testing.T) {
	assert.Equal(t, "package.a.b", ExternalID(KindPackage, "a.b"))
	assert.Equal(t, "module./utils", ExternalID(KindModule, "./utils"))
}

func TestQualifiedName(t *testing.T) {
	assert.Equal(t, "Foo", QualifiedName("", "Foo"))
	assert.Equal(t, "a.b.Foo", QualifiedName("a.b", "Foo"))
	assert.Equal(t, "pkg.Recv.Method", QualifiedName("pkg", "Recv", "Method"))
	assert.Equal(t, "pkg.Method", QualifiedName("pkg", "", "Method"))
}

func TestChecksum(t *testing.T) {
	a := Checksum([]byte("package a"))
	assert.Len(t, a, 16)
	assert.Equal(t, a, Checksum([]byte("package a")))
	assert.NotEqual(t, a, Checksum([]byte("package b")))
}
