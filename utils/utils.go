package utils

import (
	"crypto/md5"
	"encoding/hex"
	"math/rand"
	"os"

	Logger "github.com/socialmux/cleanser/utils/log"
	"github.com/socialmux/cleanser/utils/dotenv"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// ContainsString returns true iff the provided string slice hay contains
// string needle.
func ContainsString(hay []string, needle string) bool {
	for _, str := range hay {
		if str == needle {
			return true
		}
	}
	return false
}

// IsProdEnv returns true iff the current process runs with the production
// environment configured.
func IsProdEnv() bool {
	return os.Getenv("CLEANSER_ENV") == dotenv.ProdEnv
}

// TextToMd5Hash returns the hex encoded md5 digest of the text, used as the
// content hash for duplicate detection.
func TextToMd5Hash(text string) string {
	digest := md5.Sum([]byte(text))
	return hex.EncodeToString(digest[:])
}

// ImmediatePrintError logs the error at the failure site and passes it
// through, so that call chains can both surface and propagate it.
func ImmediatePrintError(err error) error {
	if err != nil {
		Logger.Log.Error(err)
	}
	return err
}

// RandomAlphabetString generates a lower case alphabet-only string of the
// given length.
func RandomAlphabetString(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(b)
}
