package cache

const (
	// KeyPrefixMetadata is the prefix for cached page metadata.
	KeyPrefixMetadata = "edudir:meta:"
)

// MetadataKey returns the Redis key for a page's cached metadata.
func MetadataKey(url string) string {
	return KeyPrefixMetadata + url
}
