package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	flag "github.com/spf13/pflag"

	html2video "github.com/alnah/go-html2video"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// programName is the binary name completion scripts register for.
const programName = "html2video"

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagFloat
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	TakesFiles  bool   // accepts file arguments
	FilePattern string // glob for file arguments (e.g., "*.html")
}

// completionMeta holds completion-specific metadata for flags.
// This is the ONLY place where completion hints are defined.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	// Enum flags
	"format":     {Values: html2video.FormatNames()},
	"log-level":  {Values: []string{"debug", "info", "warn", "error"}},
	"log-format": {Values: []string{"auto", "text", "json"}},

	// File flags with glob patterns
	"config":    {FileGlob: "*.yaml,*.yml"},
	"vars-file": {FileGlob: "*.yaml,*.yml"},
	"audio":     {FileGlob: "*.mp3,*.wav,*.m4a,*.aac,*.ogg,*.opus,*.flac"},

	// Directory flags
	"output": {IsDir: true},
}

// buildConvertFlagSet creates a FlagSet with all convert command flags.
// This reuses the same flag registration as parseConvertFlags.
func buildConvertFlagSet() *flag.FlagSet {
	return newConvertFlagSet(&convertFlags{})
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		// Determine base type from pflag type
		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
			fd.Type = flagInt
		case "float32", "float64":
			fd.Type = flagFloat
		default:
			fd.Type = flagString
		}

		// Override type based on completion metadata
		if meta, ok := flagCompletionMeta[f.Name]; ok {
			if len(meta.Values) > 0 {
				fd.Type = flagEnum
				fd.Values = meta.Values
			} else if meta.FileGlob != "" {
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			} else if meta.IsDir {
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the actual FlagSet - single source of truth.
func getCommands() []commandDef {
	convertFlags := extractFlagsFromFlagSet(buildConvertFlagSet())

	return []commandDef{
		{
			Name:        "convert",
			Desc:        "Capture HTML files or URLs to video",
			Flags:       convertFlags,
			TakesFiles:  true,
			FilePattern: "*.html,*.htm",
		},
		{
			Name:  "doctor",
			Desc:  "Check Chrome and ffmpeg setup",
			Flags: []flagDef{{Long: "json", Type: flagBool, Desc: "output as JSON"}},
		},
		{
			Name:  "version",
			Desc:  "Show version information",
			Flags: nil,
		},
		{
			Name:  "help",
			Desc:  "Show help for a command",
			Flags: nil,
		},
		{
			Name:  "completion",
			Desc:  "Generate shell completion script",
			Flags: nil,
		},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w)
	case ShellZsh:
		return generateZsh(w)
	case ShellFish:
		return generateFish(w)
	case ShellPowerShell:
		return generatePowerShell(w)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}
}

// commandNames returns the command names in registry order.
func commandNames(cmds []commandDef) []string {
	names := make([]string, 0, len(cmds))
	for _, c := range cmds {
		names = append(names, c.Name)
	}
	return names
}

// globExtensions turns "*.yaml,*.yml" into "yaml yml".
func globExtensions(glob string) []string {
	var exts []string
	for _, g := range strings.Split(glob, ",") {
		exts = append(exts, strings.TrimPrefix(strings.TrimSpace(g), "*."))
	}
	return exts
}

// flagsWithValues returns the flags that consume a value, sorted by name.
func flagsWithValues(flags []flagDef) []flagDef {
	var out []flagDef
	for _, f := range flags {
		if f.Type != flagBool {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Long < out[j].Long })
	return out
}

func generateBash(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	fmt.Fprintf(&b, "# bash completion for %s\n\n", programName)
	fmt.Fprintf(&b, "_%s_completions() {\n", programName)
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W \"%s\" -- \"${cur}\"))\n", strings.Join(commandNames(cmds), " "))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"${cmd}\" in\n")

	for _, c := range cmds {
		if len(c.Flags) == 0 && !c.TakesFiles {
			continue
		}
		fmt.Fprintf(&b, "    %s)\n", c.Name)

		valued := flagsWithValues(c.Flags)
		if len(valued) > 0 {
			b.WriteString("        case \"${prev}\" in\n")
			for _, f := range valued {
				pattern := "--" + f.Long
				if f.Short != "" {
					pattern += "|-" + f.Short
				}
				fmt.Fprintf(&b, "        %s)\n", pattern)
				switch f.Type {
				case flagEnum:
					fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W \"%s\" -- \"${cur}\"))\n", strings.Join(f.Values, " "))
				case flagFile:
					fmt.Fprintf(&b, "            COMPREPLY=($(compgen -f -X '!*.@(%s)' -- \"${cur}\"))\n", strings.Join(globExtensions(f.FileGlob), "|"))
				case flagDir:
					b.WriteString("            COMPREPLY=($(compgen -d -- \"${cur}\"))\n")
				default:
					b.WriteString("            COMPREPLY=()\n")
				}
				b.WriteString("            return\n")
				b.WriteString("            ;;\n")
			}
			b.WriteString("        esac\n")
		}

		var names []string
		for _, f := range c.Flags {
			names = append(names, "--"+f.Long)
			if f.Short != "" {
				names = append(names, "-"+f.Short)
			}
		}
		b.WriteString("        if [[ \"${cur}\" == -* ]]; then\n")
		fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W \"%s\" -- \"${cur}\"))\n", strings.Join(names, " "))
		if c.TakesFiles {
			b.WriteString("        else\n")
			fmt.Fprintf(&b, "            COMPREPLY=($(compgen -f -X '!*.@(%s)' -- \"${cur}\") $(compgen -d -- \"${cur}\"))\n", strings.Join(globExtensions(c.FilePattern), "|"))
		}
		b.WriteString("        fi\n")
		b.WriteString("        ;;\n")
	}

	b.WriteString("    completion)\n")
	b.WriteString("        COMPREPLY=($(compgen -W \"bash zsh fish powershell\" -- \"${cur}\"))\n")
	b.WriteString("        ;;\n")
	b.WriteString("    help)\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W \"%s\" -- \"${cur}\"))\n", strings.Join(commandNames(cmds), " "))
	b.WriteString("        ;;\n")
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("shopt -s extglob\n")
	fmt.Fprintf(&b, "complete -F _%s_completions %s\n", programName, programName)

	_, err := io.WriteString(w, b.String())
	return err
}

func generateZsh(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	fmt.Fprintf(&b, "#compdef %s\n\n", programName)
	fmt.Fprintf(&b, "_%s() {\n", programName)
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"${words[2]}\" in\n")

	for _, c := range cmds {
		if len(c.Flags) == 0 && !c.TakesFiles {
			continue
		}
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		b.WriteString("        _arguments \\\n")
		for _, f := range c.Flags {
			spec := "--" + f.Long
			if f.Short != "" {
				spec = fmt.Sprintf("{-%s,--%s}", f.Short, f.Long)
			}
			fmt.Fprintf(&b, "            '%s[%s]%s' \\\n", quoteZshSpec(spec), zshEscape(f.Desc), zshAction(f))
		}
		if c.TakesFiles {
			patterns := globExtensions(c.FilePattern)
			fmt.Fprintf(&b, "            '*:file:_files -g \"*.(%s)\"'\n", strings.Join(patterns, "|"))
		} else {
			b.WriteString("            && return\n")
		}
		b.WriteString("        ;;\n")
	}

	b.WriteString("    completion)\n")
	b.WriteString("        _values 'shell' bash zsh fish powershell\n")
	b.WriteString("        ;;\n")
	b.WriteString("    help)\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        ;;\n")
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	fmt.Fprintf(&b, "compdef _%s %s\n", programName, programName)

	_, err := io.WriteString(w, b.String())
	return err
}

// quoteZshSpec closes and reopens the single-quoted string around a
// brace group so zsh expands {-o,--output}.
func quoteZshSpec(spec string) string {
	if strings.HasPrefix(spec, "{") {
		return "'" + spec + "'"
	}
	return spec
}

// zshAction returns the _arguments action for a flag.
func zshAction(f flagDef) string {
	switch f.Type {
	case flagBool:
		return ""
	case flagEnum:
		return fmt.Sprintf(":%s:(%s)", f.Long, strings.Join(f.Values, " "))
	case flagFile:
		return fmt.Sprintf(":%s:_files -g \"*.(%s)\"", f.Long, strings.Join(globExtensions(f.FileGlob), "|"))
	case flagDir:
		return fmt.Sprintf(":%s:_files -/", f.Long)
	default:
		return fmt.Sprintf(":%s:", f.Long)
	}
}

func zshEscape(s string) string {
	s = strings.ReplaceAll(s, "'", "'\\''")
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	return strings.ReplaceAll(s, ":", "\\:")
}

func generateFish(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	fmt.Fprintf(&b, "# fish completion for %s\n\n", programName)
	fmt.Fprintf(&b, "function __fish_%s_needs_command\n", programName)
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	fmt.Fprintf(&b, "function __fish_%s_using_command\n", programName)
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test $cmd[2] = $argv[1]\n")
	b.WriteString("end\n\n")
	fmt.Fprintf(&b, "complete -c %s -f\n", programName)

	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c %s -n '__fish_%s_needs_command' -a %s -d '%s'\n",
			programName, programName, c.Name, fishEscape(c.Desc))
	}
	b.WriteString("\n")

	for _, c := range cmds {
		cond := fmt.Sprintf("__fish_%s_using_command %s", programName, c.Name)
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c %s -n '%s' -l %s", programName, cond, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			switch f.Type {
			case flagBool:
			case flagEnum:
				line += fmt.Sprintf(" -x -a '%s'", strings.Join(f.Values, " "))
			case flagFile, flagDir:
				line += " -r -F"
			default:
				line += " -x"
			}
			line += fmt.Sprintf(" -d '%s'", fishEscape(f.Desc))
			b.WriteString(line + "\n")
		}
		if c.TakesFiles {
			fmt.Fprintf(&b, "complete -c %s -n '%s' -F\n", programName, cond)
		}
	}

	fmt.Fprintf(&b, "complete -c %s -n '__fish_%s_using_command completion' -x -a 'bash zsh fish powershell'\n", programName, programName)
	fmt.Fprintf(&b, "complete -c %s -n '__fish_%s_using_command help' -x -a '%s'\n", programName, programName, strings.Join(commandNames(cmds), " "))

	_, err := io.WriteString(w, b.String())
	return err
}

func fishEscape(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}

func generatePowerShell(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	fmt.Fprintf(&b, "# PowerShell completion for %s\n\n", programName)
	fmt.Fprintf(&b, "Register-ArgumentCompleter -Native -CommandName %s -ScriptBlock {\n", programName)
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")
	b.WriteString("    $elements = $commandAst.CommandElements | ForEach-Object { $_.ToString() }\n")
	b.WriteString("    $command = if ($elements.Count -gt 1) { $elements[1] } else { '' }\n\n")
	b.WriteString("    $commands = @{\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s' = '%s'\n", c.Name, psEscape(c.Desc))
	}
	b.WriteString("    }\n\n")
	b.WriteString("    $flags = @{\n")
	for _, c := range cmds {
		var names []string
		for _, f := range c.Flags {
			names = append(names, "'--"+f.Long+"'")
			if f.Short != "" {
				names = append(names, "'-"+f.Short+"'")
			}
		}
		fmt.Fprintf(&b, "        '%s' = @(%s)\n", c.Name, strings.Join(names, ", "))
	}
	b.WriteString("    }\n\n")
	b.WriteString("    if ($elements.Count -le 1 -or ($elements.Count -eq 2 -and $wordToComplete -ne '')) {\n")
	b.WriteString("        $commands.GetEnumerator() | Where-Object { $_.Key -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_.Key, $_.Key, 'ParameterValue', $_.Value)\n")
	b.WriteString("        }\n")
	b.WriteString("        return\n")
	b.WriteString("    }\n\n")
	b.WriteString("    if ($command -eq 'completion') {\n")
	b.WriteString("        'bash', 'zsh', 'fish', 'powershell' | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("        }\n")
	b.WriteString("        return\n")
	b.WriteString("    }\n\n")
	b.WriteString("    if ($flags.ContainsKey($command)) {\n")
	b.WriteString("        $flags[$command] | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterName', $_)\n")
	b.WriteString("        }\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func psEscape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}

	shell := Shell(args[0])
	return GenerateCompletion(env.Stdout, shell)
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: html2video completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(html2video completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(html2video completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    html2video completion fish > ~/.config/fish/completions/html2video.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    html2video completion powershell | Out-String | Invoke-Expression")
}
