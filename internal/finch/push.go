package finch

import (
	"regexp"
	"strings"

	"github.com/distribution/reference"
	"go.uber.org/zap"
)

// imageIDPattern extracts the content digest from image inspect output.
var imageIDPattern = regexp.MustCompile(`"Id":\s*"(sha256:[a-f0-9]+)"`)

// shortHashLen is the number of digest characters used as the derived tag.
const shortHashLen = 12

// ImageReference is an image name split into repository and tag. The split
// happens on the last colon, and only when no slash follows it, so a
// registry port (localhost:5000/app) stays with the repository.
type ImageReference struct {
	Full       string
	Repository string
	Tag        string
}

// ParseImageReference splits an image name into repository and tag.
// A name without a tag yields an empty Tag.
func ParseImageReference(image string) ImageReference {
	ref := ImageReference{Full: image, Repository: image}
	if idx := strings.LastIndex(image, ":"); idx >= 0 && !strings.Contains(image[idx:], "/") {
		ref.Repository = image[:idx]
		ref.Tag = image[idx+1:]
	}
	return ref
}

// WithTag returns the reference string for the same repository under a
// different tag.
func (r ImageReference) WithTag(tag string) string {
	return r.Repository + ":" + tag
}

// ShortHash derives the tag form of an image digest: the first 12 hex
// characters after the sha256: prefix.
func ShortHash(hash string) string {
	h := strings.TrimPrefix(hash, "sha256:")
	if len(h) > shortHashLen {
		h = h[:shortHashLen]
	}
	return h
}

// Pusher retags images under their content hash and pushes them, so every
// pushed tag is unique and immutable-tag repositories accept repeat pushes.
type Pusher struct {
	finch  *CLIClient
	logger *zap.Logger
}

// NewPusher creates a pusher backed by the given finch client.
func NewPusher(finch *CLIClient, logger *zap.Logger) *Pusher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pusher{finch: finch, logger: logger}
}

// ImageHash resolves the content digest of a local image via image inspect.
// The hash is returned in the result's hash extra.
func (p *Pusher) ImageHash(image string) *Result {
	res := p.finch.Exec([]string{"image", "inspect", image})
	if !res.Succeeded() {
		return Errorf("Failed to get hash for image %s: %s", image, strings.TrimSpace(res.Stderr)).
			With(ExtraStderr, res.Stderr)
	}

	match := imageIDPattern.FindStringSubmatch(res.Stdout)
	if match == nil {
		return Errorf("Could not find hash in inspect output for image %s", image)
	}
	return Success("Resolved image hash.").With(ExtraHash, match[1])
}

// Push retags image under its short content hash and pushes the derived
// reference. The original image reference is never pushed directly.
func (p *Pusher) Push(image string) *Result {
	if image == "" {
		return Errorf("Image is required.")
	}
	if _, err := reference.ParseNormalizedNamed(image); err != nil {
		return Errorf("Invalid image reference %q: %v", image, err)
	}

	hashRes := p.ImageHash(image)
	if hashRes.IsError() {
		return hashRes
	}
	hash := hashRes.String(ExtraHash)
	target := ParseImageReference(image).WithTag(ShortHash(hash))

	p.logger.Info("tagging image",
		zap.String("image", image),
		zap.String("target", target),
		zap.String("hash", hash))
	tagRes := p.finch.Exec([]string{"image", "tag", image, target})
	if !tagRes.Succeeded() {
		return Errorf("Failed to tag image with hash: %s", strings.TrimSpace(tagRes.Stderr)).
			With(ExtraStderr, tagRes.Stderr)
	}

	p.logger.Info("pushing image", zap.String("target", target))
	pushRes := p.finch.Exec([]string{"image", "push", target})
	if !pushRes.Succeeded() {
		return Errorf("Failed to push image %s: %s", target, strings.TrimSpace(pushRes.Stderr)).
			With(ExtraStderr, pushRes.Stderr)
	}

	return Successf("Successfully pushed image %s (original: %s).", target, image).
		With(ExtraHash, hash).
		With(ExtraStdout, pushRes.Stdout)
}
