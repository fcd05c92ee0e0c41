package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"GostCipher/server/internal/config"
	"GostCipher/server/internal/pkg/bits"
	"GostCipher/server/internal/pkg/encryption"
	"GostCipher/server/internal/pkg/helpers"
	"GostCipher/server/internal/services/auth"
)

const usage = `usage: gostcli <command> [flags] [input]

commands:
  encrypt   encrypt text (argument or stdin) and print ciphertext bits
  decrypt   decrypt ciphertext bits (argument or stdin) and print text
  demo      encrypt and decrypt the two demonstration texts
  token     issue a gateway bearer token (needs JWT_SECRET)
`

var demos = []struct {
	text string
	key  string
}{
	{
		text: "Это проверочный текст with english alphabet and some digits 0123456789 and super symbols {}.,:-",
		key:  "в ключе обязательно 32 символа .",
	},
	{
		text: "Хотел бы я знать, зачем звезды светятся.\nНаверно, затем, чтобы рано или поздно каждый мог вновь отыскать свою.",
		key:  "ключ, впервые пришедший в голову",
	},
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()
	helpers.SetDebug(cfg.Log.Debug)

	var err error
	switch os.Args[1] {
	case "encrypt":
		err = runEncrypt(cfg, os.Args[2:])
	case "decrypt":
		err = runDecrypt(cfg, os.Args[2:])
	case "demo":
		err = runDemo(cfg, os.Args[2:])
	case "token":
		err = runToken(cfg, os.Args[2:])
	case "-h", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runEncrypt(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("encrypt", flag.ExitOnError)
	keyFlag := fs.String("key", "", "32-symbol key (prompted when omitted)")
	workers := fs.Int("workers", cfg.Cipher.Workers, "blocks processed in parallel")
	preview := fs.Bool("preview", false, "also print the ciphertext rendered through the codepage")
	fs.Parse(args)

	key, err := resolveKey(*keyFlag, cfg.Cipher.DefaultKey)
	if err != nil {
		return err
	}
	text, err := readInput(fs.Args())
	if err != nil {
		return err
	}

	engine := encryption.NewGOST(encryption.WithWorkers(*workers))
	ciphertext, err := engine.Encrypt(text, key)
	if err != nil {
		return err
	}

	fmt.Println(ciphertext)
	if *preview {
		fmt.Fprintln(os.Stderr, "preview:", bits.Render(ciphertext))
	}
	return nil
}

func runDecrypt(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("decrypt", flag.ExitOnError)
	keyFlag := fs.String("key", "", "32-symbol key (prompted when omitted)")
	workers := fs.Int("workers", cfg.Cipher.Workers, "blocks processed in parallel")
	fs.Parse(args)

	key, err := resolveKey(*keyFlag, cfg.Cipher.DefaultKey)
	if err != nil {
		return err
	}
	input, err := readInput(fs.Args())
	if err != nil {
		return err
	}
	ciphertext, err := bits.Parse(strings.TrimSpace(input))
	if err != nil {
		return err
	}

	engine := encryption.NewGOST(encryption.WithWorkers(*workers))
	text, err := engine.Decrypt(ciphertext, key)
	if err != nil {
		return err
	}

	fmt.Println(text)
	return nil
}

func runDemo(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	workers := fs.Int("workers", cfg.Cipher.Workers, "blocks processed in parallel")
	fs.Parse(args)

	engine := encryption.NewGOST(encryption.WithWorkers(*workers))
	separator := strings.Repeat("-", 89)

	for _, d := range demos {
		fmt.Println(separator)
		fmt.Println("Plain text:", d.text)
		fmt.Println(separator)

		ciphertext, err := engine.Encrypt(d.text, d.key)
		if err != nil {
			return err
		}
		fmt.Println("Encrypted text:", bits.Render(ciphertext))
		fmt.Println(separator)

		text, err := engine.Decrypt(ciphertext, d.key)
		if err != nil {
			return err
		}
		fmt.Println("Decrypted text:", text)
		fmt.Println(separator)

		if text != d.text {
			return errors.New("demo round-trip mismatch")
		}
	}
	return nil
}

func runToken(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	client := fs.String("client", "gostcli", "client name stored in the token")
	ttl := fs.Duration("ttl", cfg.JWT.TokenTTL, "token lifetime")
	fs.Parse(args)

	svc := auth.New(cfg.JWT.Secret, *ttl)
	token, err := svc.CreateToken(*client)
	if err != nil {
		return err
	}
	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires %s\n", time.Now().Add(*ttl).Format(time.RFC3339))
	return nil
}

// resolveKey picks the flag value, then GOST_DEFAULT_KEY, then prompts
func resolveKey(flagKey, defaultKey string) (string, error) {
	key := flagKey
	if key == "" {
		key = defaultKey
	}
	if key == "" {
		prompted, err := promptForKey()
		if err != nil {
			return "", err
		}
		key = prompted
	}
	if err := helpers.ValidateKeyShape(key); err != nil {
		return "", fmt.Errorf("invalid key: %w", err)
	}
	return key, nil
}

func promptForKey() (string, error) {
	fd := int(syscall.Stdin)
	if !term.IsTerminal(fd) {
		return "", errors.New("no key given: pass -key, set GOST_DEFAULT_KEY or run from a terminal")
	}
	fmt.Fprint(os.Stderr, "Enter key (hidden): ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read key: %w", err)
	}
	return string(b), nil
}

// readInput joins positional arguments, or reads stdin when there are none
func readInput(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return strings.TrimSuffix(strings.TrimSuffix(string(b), "\n"), "\r"), nil
}
