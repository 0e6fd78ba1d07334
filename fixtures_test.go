// fixtures_test.go — end-to-end programs from testdata/programs.yaml.
package ampell

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"testing"

	"gopkg.in/yaml.v3"
)

type fixture struct {
	Name    string            `yaml:"name"`
	Source  string            `yaml:"source"`
	Stdin   []string          `yaml:"stdin"`
	Output  string            `yaml:"output"`
	Stacks  map[string]string `yaml:"stacks"`
	Current string            `yaml:"current"`
	Vars    map[string]string `yaml:"vars"`
}

// fixtureReader scripts stdin; prompts go to the captured output like the
// default console reader.
type fixtureReader struct {
	lines []string
	out   io.Writer
}

func (f *fixtureReader) ReadLine(prompt string) (string, error) {
	fmt.Fprint(f.out, prompt)
	if len(f.lines) == 0 {
		return "", io.ErrUnexpectedEOF
	}
	line := f.lines[0]
	f.lines = f.lines[1:]
	return line, nil
}

func Test_Fixtures(t *testing.T) {
	raw, err := os.ReadFile("testdata/programs.yaml")
	if err != nil {
		t.Fatalf("reading fixtures: %v", err)
	}
	var cases []fixture
	if err := yaml.Unmarshal(raw, &cases); err != nil {
		t.Fatalf("decoding fixtures: %v", err)
	}
	if len(cases) == 0 {
		t.Fatalf("no fixtures found")
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			ip := NewInterpreter()
			var out bytes.Buffer
			ip.Out = &out
			ip.In = &fixtureReader{lines: tc.Stdin, out: &out}

			if err := ip.Exec(tc.Source); err != nil {
				t.Fatalf("Exec: %v", err)
			}

			if got := out.String(); got != tc.Output {
				t.Errorf("output:\n%q\nwant:\n%q", got, tc.Output)
			}
			for name, want := range tc.Stacks {
				s, ok := ip.Stack(name)
				if !ok {
					t.Errorf("stack %q does not exist", name)
					continue
				}
				if got := FormatStack(s); got != want {
					t.Errorf("stack %q = %s, want %s", name, got, want)
				}
			}
			if tc.Current != "" && ip.CurrentStackName() != tc.Current {
				t.Errorf("active stack %q, want %q", ip.CurrentStackName(), tc.Current)
			}
			for name, want := range tc.Vars {
				v, ok := ip.Var(name)
				if !ok {
					t.Errorf("variable %q not bound", name)
					continue
				}
				if got := FormatValue(v); got != want {
					t.Errorf("variable %q = %s, want %s", name, got, want)
				}
			}
		})
	}
}
