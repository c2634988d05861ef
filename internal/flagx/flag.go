// Package flagx lets several configuration sources read their own flags out
// of os.Args without tripping over flags that belong to someone else.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs keeps only the allowed flags (and their values) from args.
//
// Both "-c conf.json" and "--config=conf.json" forms are recognised. A token
// following an allowed flag is treated as its value unless it starts with "-".
// The result is never nil.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// PathFlag returns the value of a path-like flag given in short or long
// form (for example -c / -config), or "" when absent.
func PathFlag(short, long, usage string) string {
	var path string

	args := FilterArgs(os.Args[1:], []string{"-" + short, "-" + long, "--" + long})

	fs := flag.NewFlagSet(long, flag.ContinueOnError)
	fs.StringVar(&path, long, "", usage)
	fs.StringVar(&path, short, "", usage+" (short)")
	_ = fs.Parse(args)

	return path
}

// JsonConfigFlags returns the JSON config file path given with -c or -config.
func JsonConfigFlags() string {
	return PathFlag("c", "config", "Path to config file")
}

// EnvFileFlags returns the dotenv file path given with -E or -env-file.
func EnvFileFlags() string {
	return PathFlag("E", "env-file", "Path to .env file")
}
