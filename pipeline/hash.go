package pipeline

import (
	"github.com/minio/highwayhash"
)

var key = []byte("innerfix-unit-fingerprint-key-32")

// Fingerprint returns a 64-bit highwayhash of data
func Fingerprint(data []byte) (uint64, error) {
	hash, err := highwayhash.New64(key)
	if err != nil {
		return 0, err
	}
	_, err = hash.Write(data)
	return hash.Sum64(), err
}
