package tillsync

// Version is the tillsync release version, overridable at build time with
// -ldflags "-X github.com/mesh-intelligence/tillsync/pkg/tillsync.Version=...".
var Version = "0.1.0"
