// main.go - salsa20-crypt command line tool.
//
// To the extent possible under law, Yawning Angel has waived all copyright
// and related or neighboring rights to salsa20, using the Creative
// Commons "CC0" public domain dedication. See LICENSE or
// <http://creativecommons.org/publicdomain/zero/1.0/> for full details.

// salsa20-crypt encrypts or decrypts a file (or stdin) with Salsa20/20.
//
// The key is taken from the -key flag, from an interactive password
// prompt (-passwd, stretched to 32 bytes with BLAKE2b), or from the Key
// entry of the TOML configuration file.  On encryption a random 8 byte
// nonce is generated and prepended to the ciphertext; decryption reads
// it back from the input.  There is no authentication: a tampered
// ciphertext decrypts to garbage, not to an error.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	blake2b "github.com/minio/blake2b-simd"
	"github.com/mitchellh/go-homedir"
	"golang.org/x/crypto/ssh/terminal"

	"gitlab.com/yawning/salsa20.git"
)

const defaultConfigFile = "~/.salsa20-crypt.toml"

type tomlConfig struct {
	Key     string
	Counter uint64
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [options] [input [output]]\n\nOptions:\n", os.Args[0])
	flag.PrintDefaults()
	os.Exit(2)
}

func loadConfig(path string) tomlConfig {
	var conf tomlConfig

	required := path != ""
	if path == "" {
		path = defaultConfigFile
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		log.Fatal(err)
	}
	if _, err = os.Stat(expanded); err != nil {
		if required {
			log.Fatal(err)
		}
		return conf
	}
	if _, err = toml.DecodeFile(expanded, &conf); err != nil {
		log.Fatal(err)
	}
	return conf
}

// stretchPassword derives a 32 byte key from an interactively supplied
// password.
func stretchPassword() []byte {
	fd := int(os.Stdin.Fd())
	var passwd []byte
	if terminal.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "Password: ")
		pw, err := terminal.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			log.Fatal(err)
		}
		passwd = pw
	} else {
		// Data is arriving on stdin, read the password from the
		// controlling terminal instead.
		tty, err := os.Open("/dev/tty")
		if err != nil {
			log.Fatal(err)
		}
		defer tty.Close()
		fmt.Fprint(os.Stderr, "Password: ")
		pw, err := terminal.ReadPassword(int(tty.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			log.Fatal(err)
		}
		passwd = pw
	}

	hf, err := blake2b.New(&blake2b.Config{
		Size:   salsa20.KeySize,
		Person: []byte("salsa20-crypt"),
	})
	if err != nil {
		log.Fatal(err)
	}
	hf.Write(passwd)
	return hf.Sum(nil)
}

func decodeKey(s string) []byte {
	key, err := hex.DecodeString(s)
	if err != nil {
		log.Fatal("key is not valid hex: ", err)
	}
	if len(key) != salsa20.KeySize && len(key) != salsa20.KeySize128 {
		log.Fatalf("key must be %d or %d bytes, not %d", salsa20.KeySize128, salsa20.KeySize, len(key))
	}
	return key
}

func main() {
	keyHex := flag.String("key", "", "hex encoded 16 or 32 byte key")
	passwd := flag.Bool("passwd", false, "prompt for a password instead of a key")
	configFile := flag.String("config", "", "configuration file (default "+defaultConfigFile+")")
	decrypt := flag.Bool("d", false, "decrypt instead of encrypt")
	hexArmor := flag.Bool("hex", false, "hex encode the output (and expect hex input when decrypting)")
	counter := flag.Uint64("counter", 0, "start block counter")
	jobs := flag.Int("j", 1, "number of parallel workers (0 selects GOMAXPROCS)")
	flag.Usage = usage
	flag.Parse()

	conf := loadConfig(*configFile)
	if *counter == 0 {
		*counter = conf.Counter
	}

	var key []byte
	switch {
	case *keyHex != "":
		key = decodeKey(*keyHex)
	case *passwd:
		key = stretchPassword()
	case conf.Key != "":
		key = decodeKey(conf.Key)
	default:
		log.Fatal("no key material: use -key, -passwd, or the Key config entry")
	}

	in, out := os.Stdin, os.Stdout
	switch args := flag.Args(); len(args) {
	case 0:
	case 2:
		f, err := os.OpenFile(args[1], os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		out = f
		fallthrough
	case 1:
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				log.Fatal(err)
			}
			defer f.Close()
			in = f
		}
	default:
		usage()
	}

	data, err := ioutil.ReadAll(in)
	if err != nil {
		log.Fatal(err)
	}

	if *decrypt {
		if *hexArmor {
			if data, err = hex.DecodeString(strings.TrimSpace(string(data))); err != nil {
				log.Fatal("input is not valid hex: ", err)
			}
		}
		if len(data) < salsa20.NonceSize {
			log.Fatal("input shorter than a nonce")
		}
		nonce, ciphertext := data[:salsa20.NonceSize], data[salsa20.NonceSize:]
		plaintext, err := salsa20.DecryptParallel(key, ciphertext, nonce, *counter, *jobs)
		if err != nil {
			log.Fatal(err)
		}
		if _, err = out.Write(plaintext); err != nil {
			log.Fatal(err)
		}
		return
	}

	nonce := make([]byte, salsa20.NonceSize)
	if _, err = rand.Read(nonce); err != nil {
		log.Fatal(err)
	}
	ciphertext, err := salsa20.EncryptParallel(key, data, nonce, *counter, *jobs)
	if err != nil {
		log.Fatal(err)
	}
	framed := append(nonce, ciphertext...)
	if *hexArmor {
		if _, err = fmt.Fprintln(out, hex.EncodeToString(framed)); err != nil {
			log.Fatal(err)
		}
		return
	}
	if _, err = out.Write(framed); err != nil {
		log.Fatal(err)
	}
}
