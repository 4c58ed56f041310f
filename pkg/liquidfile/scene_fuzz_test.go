package liquidfile

import "testing"

func FuzzParseScene(f *testing.F) {
	f.Add([]byte(sceneYAML), true)
	f.Add([]byte(`{"shapes":[{"name":"a","d":"M0,0 L10,0","options":{"closed":false}}]}`), false)
	f.Add([]byte("shapes: [{d: 'M0,0 H200 V200 H0 Z', viewBox: [0, 0, 200, 200]}]"), true)
	f.Add([]byte(`{"shapes":[]}`), false)
	f.Add([]byte("shapes: [{d: 'M0,0', options: {range: {x: -1}}}]"), true)

	f.Fuzz(func(t *testing.T, data []byte, yamlFormat bool) {
		format := FormatJSON
		if yamlFormat {
			format = FormatYAML
		}

		s, err := ParseScene(data, format)
		if err != nil {
			return
		}

		// A scene that validates must encode and still validate
		out, err := MarshalScene(s, format)
		if err != nil {
			t.Fatalf("MarshalScene failed on valid scene: %v", err)
		}
		if _, err := ParseScene(out, format); err != nil {
			t.Fatalf("Re-parsing valid scene failed: %v\n%s", err, out)
		}
	})
}
