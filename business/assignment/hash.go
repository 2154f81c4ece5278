package assignment

import (
	"crypto/md5"
	"encoding/binary"
)

const (
	trafficSalt = "-traffic-"
	variantSalt = "-variant-"
)

// StableHash is the big-endian uint32 of the first four MD5 bytes, i.e. the
// first eight hex characters of the digest parsed as base 16. MD5 is used for
// its cross-platform stability, not for security.
func StableHash(input string) uint32 {
	sum := md5.Sum([]byte(input))
	return binary.BigEndian.Uint32(sum[:4])
}

// bucket maps a hash to [1, 100].
func bucket(h uint32) int {
	return int(h%100) + 1
}

// TrafficBucket decides inclusion: the user participates when the bucket is
// <= the experiment's traffic allocation.
func TrafficBucket(experimentID, userID string) int {
	return bucket(StableHash(experimentID + trafficSalt + userID))
}

// VariantBucket is salted differently from TrafficBucket so inclusion and
// variant choice are independent.
func VariantBucket(experimentID, userID string) int {
	return bucket(StableHash(experimentID + variantSalt + userID))
}
