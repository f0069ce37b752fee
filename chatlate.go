// Package chatlate provides a translation bridge between a chat application
// and a machine translation engine.
//
// Chatlate translates user input into English before a model sees it and
// translates model output back into the user's language before display. Along
// the way it keeps protected spans, inline formatting, and newlines intact and
// adds right-to-left embedding marks for RTL languages. On any failure the
// caller gets the original text back, never a partial translation.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "fmt"
//	    "log"
//
//	    "github.com/ZaguanLabs/chatlate"
//	    "github.com/ZaguanLabs/chatlate/cache"
//	    "github.com/ZaguanLabs/chatlate/provider"
//	    "github.com/ZaguanLabs/chatlate/settings"
//	)
//
//	func main() {
//	    store, err := settings.Open("settings.json", nil)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    bridge := chatlate.NewBridge(store, provider.New, cache.NewMemory())
//
//	    // User text in the configured language goes out in English
//	    prompt := bridge.TranslateIncoming(context.Background(), "Привет, ~Иван~!")
//
//	    // Model output in English comes back in the configured language
//	    reply := bridge.TranslateOutgoing(context.Background(), "Hello **there**")
//	    fmt.Println(prompt, reply)
//	}
package chatlate
