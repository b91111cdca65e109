package constants

// CacheNamespace prefixes every key in shared cache backends so several
// applications can share one Redis.
const CacheNamespace = "sokopesa"
