// Package bookmarklet renders the injectable script for a verified key set.
//
// The script patches window.eval for exactly one call, rewrites the
// GEMINI_API_KEYS declaration in the evaluated source to the embedded keys,
// restores eval and then fetches and evaluates the payload script. Rendering
// is a pure function of the key list.
package bookmarklet

import (
	"bytes"
	"encoding/json"
	"strings"
)

const (
	// Scheme prefixes every rendered script.
	Scheme = "javascript:"

	// Placeholder is the variable the payload declares its key list in.
	Placeholder = "GEMINI_API_KEYS"

	// PayloadURL is fetched and evaluated when the script runs.
	PayloadURL = "https://raw.githubusercontent.com/mzzvxm/WaygroundX/main/bypass.js"

	// DefaultFilename is the suggested name when saving the script.
	DefaultFilename = "wayground-bookmarklet.txt"
)

// The script around the key list. Regex escapes are literal JavaScript.
const (
	head = Scheme + `(()=>{try{const INJECT_KEYS=[`

	tail = `];const _o=window.eval;window.eval=function(code){try{` +
		`code=code.replace(/const\s+` + Placeholder + `\s*=\s*\[[\s\S]*?\]\s*;/m,` +
		`"const ` + Placeholder + ` = "+JSON.stringify(INJECT_KEYS)+";");` +
		`}catch(e){console.error("inj",e);}finally{window.eval=_o;}return _o(code);};` +
		`fetch("` + PayloadURL + `").then(r=>r.text()).then(eval);` +
		`}catch(e){alert("Erro:"+e);console.error(e);}})();`
)

// Render returns the single-line script embedding keys in order.
func Render(keys []string) string {
	var b strings.Builder
	b.Grow(len(head) + len(tail) + 48*len(keys))
	b.WriteString(head)
	b.WriteString(KeyLiteral(keys))
	b.WriteString(tail)
	return b.String()
}

// KeyLiteral renders keys as comma-separated JavaScript string literals,
// without the surrounding brackets. JSON quoting keeps quotes, backslashes
// and line terminators from breaking out of the literal.
func KeyLiteral(keys []string) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = quote(k)
	}
	return strings.Join(parts, ",")
}

func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}
