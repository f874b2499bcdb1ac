package helpers

import (
	"math/rand"
	"strings"
)

// Fuzzer provides adversarial input strings for identifiers the client
// interpolates into URLs or headers.
type Fuzzer struct {
	rnd *rand.Rand
}

// NewFuzzer creates a new Fuzzer with the given seed.
func NewFuzzer(seed int64) *Fuzzer {
	return &Fuzzer{rnd: rand.New(rand.NewSource(seed))}
}

// AttackStrings are inputs no Reddit identifier may contain: path traversal,
// query smuggling, injection, control characters and look-alike unicode.
func (f *Fuzzer) AttackStrings() []string {
	return []string{
		"../../etc/passwd",
		"..\\..\\windows\\system32",
		"golang/../admin",
		"golang/about",
		"golang?limit=1000",
		"golang#fragment",
		"golang%2F..%2Fadmin",
		"golang'; DROP TABLE--",
		"golang' OR '1'='1",
		"test<script>alert(1)</script>",
		"golang\u0000admin",
		"test\u202Eadmin",
		"café",
		"тест",
		"🚀rocket",
		"test\nsub",
		"test\rsub",
		"test\tsub",
		"test\x1Bsub",
		"test sub",
		"test@sub",
	}
}

// FuzzSubredditName returns subreddit names that must be rejected.
func (f *Fuzzer) FuzzSubredditName() []string {
	return append(f.AttackStrings(),
		"a",
		"ab",
		"abcdefghijklmnopqrstuv",
		strings.Repeat("a", 100),
		"_test",
		"test_",
		"test__sub",
		"___",
		"test-sub",
		"test.sub",
	)
}

// ValidSubredditNames returns boundary names that must be accepted.
func (f *Fuzzer) ValidSubredditNames() []string {
	return []string{"abc", "abcdefghijklmnopqrstu", "GoLang", "123", "test_sub", "a1_b2_c3"}
}

// FuzzUsername returns usernames that must be rejected.
func (f *Fuzzer) FuzzUsername() []string {
	return append(f.AttackStrings(),
		"",
		"ab",
		strings.Repeat("u", 21),
		"user.name",
		"user+name",
	)
}

// FuzzCommentID returns ids that must be rejected by /api/morechildren.
func (f *Fuzzer) FuzzCommentID() []string {
	return append(f.AttackStrings(),
		"",
		strings.Repeat("a", 101),
		"abc,def",
		"abc&children=zzz",
		"t1_abc",
		"abc-123",
	)
}

// FuzzLinkID returns link ids that must be rejected by Comments.
func (f *Fuzzer) FuzzLinkID() []string {
	return append(f.AttackStrings(),
		"",
		"t1_abc",
		"t5_abc",
		"t3_",
		"t3_abc_def",
		"T3_abc",
		"t3_abc/../x",
		strings.Repeat("a", 101),
	)
}

// FuzzUserAgent returns User-Agent values that must be rejected.
func (f *Fuzzer) FuzzUserAgent() []string {
	return []string{
		"bot/1.0\r\nX-Injected: true",
		"bot/1.0\nAuthorization: Bearer stolen",
		"bot/1.0\r",
		strings.Repeat("A", 257),
	}
}

// FuzzFullName returns strings that are not FullNames.
func (f *Fuzzer) FuzzFullName() []string {
	return []string{
		"",
		"t3",
		"t3_",
		"_abc",
		"t7_abc",
		"t0_abc",
		"x3_abc",
		"Listing_abc",
		"more_abc",
		"t3_abc_def",
		"t3abc",
	}
}

// RandomString returns n random bytes drawn from printable ASCII and, with
// special set, control characters and separators.
func (f *Fuzzer) RandomString(n int, special bool) string {
	const printable = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_-"
	const hostile = "/?#&%\r\n\t\x00 .'\"<>\\"
	alphabet := printable
	if special {
		alphabet += hostile
	}

	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteByte(alphabet[f.rnd.Intn(len(alphabet))])
	}
	return sb.String()
}
