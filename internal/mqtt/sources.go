package mqtt

import (
	"github.com/minaretlabs/minaret/internal/db"
	"github.com/minaretlabs/minaret/internal/model"
)

// KVAudioSources picks the playback source from the kv store: a custom
// uploaded sound URL when present, the bundled default otherwise. The size
// probe avoids loading the value just to find out nothing is there.
type KVAudioSources struct {
	DefaultAdhan string
	DefaultIqama string
}

func (s KVAudioSources) Source(kind model.AlertKind) string {
	key, def := db.KeyCustomAdhan, s.DefaultAdhan
	if kind == model.AlertIqama {
		key, def = db.KeyCustomIqama, s.DefaultIqama
	}

	if n, err := db.SizeOf(key); err != nil || n == 0 {
		return def
	}
	var url string
	if ok, err := db.Get(key, &url); err == nil && ok && url != "" {
		return url
	}
	return def
}
