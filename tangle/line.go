package tangle

import (
	"regexp"
	"strings"
)

// Delim is the two-character chunk delimiter. A line holding only Delim
// opens or closes a chunk, Delim followed by a path opens a named chunk, and
// a token enclosed in Delim pairs inside a chunk body is a reference.
const Delim = "``"

// DeclMarker terminates a path that declares the chunk it names.
const DeclMarker = ":"

// GhostRef is the reference token that opens a ghost chunk.
const GhostRef = "."

var (
	boundaryPattern  = regexp.MustCompile("^``(\\s+#\\S+)?\\s*$")
	referencePattern = regexp.MustCompile("``[^`]+``")
	tagPattern       = regexp.MustCompile(`\s+#(\S+)\s*$`)
	declPattern      = regexp.MustCompile(`:\s*$`)
)

// IsChunkBoundary reports whether line consists solely of the chunk
// delimiter, optionally followed by a tag. Whether the boundary opens or
// closes a chunk depends on the reader state.
func IsChunkBoundary(line string) bool {
	return boundaryPattern.MatchString(line)
}

// IsDeclarationOpen reports whether line, read outside a chunk, opens a chunk
// with a non-empty path.
func IsDeclarationOpen(line string) bool {
	if !strings.HasPrefix(line, Delim) || IsChunkBoundary(line) {
		return false
	}

	return ExtractPath(line) != ""
}

// IsReference reports whether line contains a delimiter-enclosed non-empty
// token anywhere.
func IsReference(line string) bool {
	return referencePattern.MatchString(line)
}

// ExtractPath returns the path carried by an opener or reference line.
//
// Everything up to and including the first delimiter is removed, then the
// next delimiter and everything following it, a trailing newline, and an
// optional trailing "#tag".
func ExtractPath(line string) string {
	line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")

	i := strings.Index(line, Delim)
	if i < 0 {
		return ""
	}

	line = line[i+len(Delim):]

	if j := strings.Index(line, Delim); j >= 0 {
		line = line[:j]
	}

	line = tagPattern.ReplaceAllString(line, "")

	return strings.TrimSpace(line)
}

// ExtractTag returns the opaque "#tag" annotation of an opener or boundary
// line without its '#', or the empty string.
func ExtractTag(line string) string {
	line = strings.TrimSuffix(line, "\n")

	if i := strings.Index(line, Delim); i >= 0 {
		line = line[i+len(Delim):]
	}

	if j := strings.Index(line, Delim); j >= 0 {
		line = line[:j]
	}

	m := tagPattern.FindStringSubmatch(line)
	if m == nil {
		return ""
	}

	return m[1]
}

// isDeclaration reports whether path ends in the declaration marker and
// returns the path without it.
func isDeclaration(path string) (string, bool) {
	if declPattern.MatchString(path) {
		return strings.TrimSpace(declPattern.ReplaceAllString(path, "")), true
	}

	return path, false
}

// leadingSpace returns the run of spaces and tabs that begins s.
func leadingSpace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }
