package expand

import "strings"

const defaultLoremWords = 30

var loremOpening = []string{
	"lorem", "ipsum", "dolor", "sit", "amet", "consectetur", "adipisicing", "elit",
}

var loremVocabulary = []string{
	"exercitationem", "perferendis", "perspiciatis", "laborum", "eveniet",
	"sunt", "iure", "nam", "nobis", "eum", "cum", "officiis", "excepturi",
	"odio", "consectetur", "quasi", "aut", "quisquam", "vel", "eligendi",
	"itaque", "non", "odit", "tempore", "quaerat", "dignissimos",
	"facilis", "neque", "nihil", "expedita", "vitae", "vero", "ipsum",
	"nisi", "animi", "cumque", "pariatur", "velit", "modi", "natus",
	"iusto", "eaque", "sequi", "illo", "sed", "ex", "et", "voluptatibus",
	"tempora", "veritatis", "ratione", "assumenda", "incidunt", "nostrum",
	"placeat", "aliquid", "fuga", "provident", "praesentium", "rem",
	"necessitatibus", "suscipit", "adipisci", "quidem", "possimus",
	"voluptas", "debitis", "sint", "accusantium", "unde", "sapiente",
	"voluptate", "qui", "aspernatur", "laudantium", "soluta", "amet",
	"quo", "aliquam", "saepe", "culpa", "libero", "ipsa", "dicta",
	"reiciendis", "nesciunt", "doloribus", "autem", "impedit", "minima",
	"maiores", "repudiandae", "ipsam", "obcaecati", "ullam", "enim",
	"totam", "delectus", "ducimus", "quis", "voluptates", "dolores",
	"molestiae", "harum", "dolorem", "quia", "voluptatem", "molestias",
	"magni", "distinctio", "omnis", "illum", "dolorum", "voluptatum", "ea",
	"quas", "quam", "corporis", "quae", "blanditiis", "atque", "deserunt",
	"laboriosam", "earum", "consequuntur", "hic", "cupiditate",
	"quibusdam", "accusamus", "ut", "rerum", "error", "minus", "eius",
	"ab", "ad", "nemo", "fugit", "officia", "at", "in", "id", "quos",
	"reprehenderit", "numquam", "iste", "fugiat", "sit", "inventore",
	"beatae", "repellendus", "magnam", "recusandae", "quod", "explicabo",
	"doloremque", "aperiam", "consequatur", "asperiores", "commodi",
	"optio", "dolor", "labore", "temporibus", "repellat", "veniam",
	"architecto", "est", "esse", "mollitia", "nulla", "a", "similique",
	"eos", "alias", "dolore", "tenetur", "deleniti", "porro", "facere",
	"maxime", "corrupti",
}

// sentenceLengths cycles to vary sentence length deterministically
var sentenceLengths = []int{8, 11, 6, 13, 9, 7, 12}

// lorem generates exactly count words of filler text. The text opens with
// "Lorem ipsum dolor sit amet" and is identical for identical counts.
func lorem(count int) string {
	if count <= 0 {
		return ""
	}

	words := make([]string, 0, count)
	for i := 0; i < count && i < len(loremOpening); i++ {
		words = append(words, loremOpening[i])
	}
	for v := 0; len(words) < count; v++ {
		// Stride through the vocabulary so neighbouring words vary
		words = append(words, loremVocabulary[(v*7)%len(loremVocabulary)])
	}

	var b strings.Builder
	sentence, inSentence := 0, 0
	for i, w := range words {
		if i > 0 {
			b.WriteByte(' ')
		}
		if inSentence == 0 {
			w = strings.ToUpper(w[:1]) + w[1:]
		}
		b.WriteString(w)
		inSentence++

		if i == len(words)-1 || inSentence == sentenceLengths[sentence%len(sentenceLengths)] {
			b.WriteByte('.')
			inSentence = 0
			sentence++
		}
	}
	return b.String()
}
