package finch

import (
	"fmt"
	"os"
	"regexp"
)

// ECR reference grammar. A repository URI is
// <12-digit account>.dkr.ecr.<region>.amazonaws.com/<path>[:<tag>] and the
// region must look like us-east-1: two lowercase letters, a lowercase word,
// and a number.
var (
	ecrRepositoryPattern = regexp.MustCompile(
		`^(\d{12})\.dkr\.ecr\.([a-z0-9-]+)\.amazonaws\.com/([a-zA-Z0-9._/-]+)(?::([a-zA-Z0-9._-]+))?$`)
	ecrRegionPattern = regexp.MustCompile(`^[a-z]{2}-[a-z]+-\d+$`)

	// Looser substring form for scanning file content such as Dockerfiles.
	ecrReferencePattern = regexp.MustCompile(
		`\d{12}\.dkr\.ecr\.[a-z]{2}-[a-z]+-\d+\.amazonaws\.com`)
)

// ECRReference is a parsed ECR repository URI.
type ECRReference struct {
	AccountID string
	Region    string
	Path      string
	Tag       string
}

// ParseECRReference parses ref as an ECR repository URI. The second return
// value is false when ref is not ECR-shaped or the region component does not
// match the region grammar.
func ParseECRReference(ref string) (ECRReference, bool) {
	match := ecrRepositoryPattern.FindStringSubmatch(ref)
	if match == nil {
		return ECRReference{}, false
	}
	if !ecrRegionPattern.MatchString(match[2]) {
		return ECRReference{}, false
	}
	return ECRReference{
		AccountID: match[1],
		Region:    match[2],
		Path:      match[3],
		Tag:       match[4],
	}, true
}

// IsECRRepository reports whether ref is a well-formed ECR repository URI.
func IsECRRepository(ref string) bool {
	_, ok := ParseECRReference(ref)
	return ok
}

// ContainsECRReference reports whether content mentions an ECR registry
// hostname anywhere, for example in a Dockerfile FROM line.
func ContainsECRReference(content string) bool {
	return ecrReferencePattern.MatchString(content)
}

// DockerfileReferencesECR reads the file at path and reports whether it
// references an ECR registry.
func DockerfileReferencesECR(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read dockerfile %s: %w", path, err)
	}
	return ContainsECRReference(string(data)), nil
}
