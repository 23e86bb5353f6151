// Package seed generates the initial character catalog.
package seed

import (
	"fmt"

	"github.com/rcliao/sutra-power/internal/model"
)

// Count is the number of seeded characters.
const Count = 54

const fallbackDescription = "A character from the ancient Buddhist Sutra"

type entry struct {
	name        string
	description string
}

// entries holds the named characters in chapter order. Slots past the end use
// a generated name and the fallback description.
var entries = []entry{
	{"Buda Śākyamuni", "The historical Buddha, founder of Buddhism"},
	{"Samantabhadra", "Bodhisattva of practice and meditation"},
	{"Manjushri", "Bodhisattva of wisdom and intelligence"},
	{"Meghaśrī", "The Cloud of Glory, representing the vastness of wisdom"},
	{"Sāgaramegha", "The Ocean Cloud, representing the depth of compassion"},
	{"Supratiṣṭhita", "The Well Established, representing stability in practice"},
	{"Megha", "The Cloud, representing the cooling of afflictions"},
	{"Muktaka", "The Liberated One, representing freedom from attachments"},
	{"Sāgaradhvaja", "The Ocean Banner, representing the vastness of merit"},
	{"Āśā", "Hope, representing aspiration for enlightenment"},
	{"Bhīṣmottaranirghoṣa", "The Fearless Thunder, representing courage in practice"},
	{"Jayoṣmāyatana", "The Abode of Victory and Heat, representing spiritual energy"},
	{"Maitrayaṇī", "The Friendly One, representing loving-kindness"},
	{"Sudarśana", "The Beautiful to Behold, representing the attractiveness of virtue"},
	{"Indriyeśvara", "The Lord of Faculties, representing mastery of the senses"},
	{"Samantanetra", "The All-Seeing, representing omniscience"},
	{"Anala", "The Fire, representing the burning away of ignorance"},
	{"Mahāprabha", "The Great Light, representing illumination of the mind"},
	{"Acalā", "The Immovable, representing steadfastness in practice"},
	{"Sarvagamin", "The All-Going, representing universal accessibility"},
	{"Utpalabhūti", "The Lotus-Born, representing purity amidst worldly defilements"},
	{"Vaira", "The Adamantine, representing indestructible wisdom"},
	{"Jayottama", "The Supreme Victory, representing triumph over Mara"},
	{"Siṃhavijṛmbhitā", "The Lion's Roar, representing fearless proclamation of Dharma"},
	{"Vasumitrā", "The Good Friend, representing spiritual companionship"},
	{"Veṣṭhila", "The Clothed, representing modesty and ethical conduct"},
	{"Avalokiteśvara", "The Lord Who Looks Down, representing compassionate observation"},
	{"Ananyagāmin", "The Non-Returning, representing irreversible progress"},
	{"Mahādeva", "The Great God, representing divine qualities"},
	{"Sthāvarā", "The Stable, representing immovability in meditation"},
	{"Vāsantī", "The Spring-Like, representing seasonal renewal"},
	{"Samantagambhīraśrīvimalaprabhā", "The All-Profound-Glory-Stainless-Light, representing purified radiance"},
	{"Pramuditanayanajagadvirocanā", "The Joyful-Eyed-World-Illuminator, representing joyful vision"},
	{"Samantasattvatrāṇojaḥśrī", "The All-Beings-Saving-Splendor-Glory, representing universal salvation"},
	{"Praśantarutasāgaravatī", "The Peaceful-Voice-Ocean-Like, representing tranquil eloquence"},
	{"Sarvanagararakṣāsaṃbhavatejaḥśrī", "The All-Cities-Protecting-Arising-Splendor-Glory, representing urban protection"},
	{"Sarvavṛkṣpraphullanasukhasaṃvāsā", "The All-Trees-Blooming-Happiness-Dwelling, representing natural harmony"},
	{"Sarvajagadrakṣāpraṇidhānavīryaprabhā", "The All-World-Protecting-Vow-Energy-Light, representing protective power"},
	{"Sutejomaṇḍalaratiśrī", "The Good-Light-Mandala-Joy-Glory, representing radiant delight"},
	{"Gopā", "The Cowherd, representing Buddha's foster mother"},
	{"Māyādevī", "The Illusion Goddess, representing Buddha's birth mother"},
	{"Surendrābhā", "The Splendor of Indra, representing divine majesty"},
	{"Viśvāmitra", "The Universal Friend, representing universal friendship"},
	{"Śilpābhijña", "The Skilled in Crafts, representing artistic mastery"},
	{"Bhadrottamā", "The Supremely Excellent, representing highest quality"},
	{"Muktāsāra", "The Essence of Liberation, representing the core of freedom"},
	{"Sucandra", "The Good Moon, representing cooling reflection"},
	{"Ajitasena", "The Unconquered Army, representing spiritual strength"},
	{"Śivarāgra", "The Auspicious Passion, representing transformed desire"},
	{"Śrīsaṃbhava & Śrīmati", "The Glorious Origin & The Glorious One, representing auspicious partnership"},
	{"Maitreya", "The Loving One, representing future Buddha"},
	{"Manjushri (reprise)", "The Gentle Glory, representing wisdom revisited"},
	{"Samantabhadra (reprise)", "The Universally Good, representing practice revisited"},
}

const chapterTemplate = `<h2>Chapter %d: The Teachings of %[2]s</h2>
<p>In ancient times, when the Buddha was residing at the Jetavana monastery, %[2]s approached and spoke about the nature of wisdom.</p>
<p>"The path to enlightenment requires diligent practice and deep understanding. One who is mindful observes the rising and falling of phenomena, and through this observation, insight develops."</p>
<p>%[2]s continued, "Just as a skilled craftsman can distinguish between different types of wood, a wise person can distinguish between wholesome and unwholesome states of mind."</p>
<p>This teaching was given to help the disciples develop their understanding of the path to liberation.</p>`

// Characters returns the seed catalog: Count characters with ids 1..Count,
// fixed names and descriptions, template chapter text and no images or
// models. Every call returns a fresh, identical slice.
func Characters() []model.Character {
	chars := make([]model.Character, Count)
	for i := range chars {
		n := i + 1
		name := fmt.Sprintf("Character %d", n)
		description := fallbackDescription
		if i < len(entries) {
			name = entries[i].name
			description = entries[i].description
		}
		chars[i] = model.Character{
			ID:          int64(n),
			Name:        name,
			Description: description,
			ChapterText: fmt.Sprintf(chapterTemplate, n, name),
			Images:      []model.Image{},
			Documents:   []model.Document{},
		}
	}
	return chars
}

// Character returns the seed character with the given id.
func Character(id int64) (model.Character, bool) {
	if id < 1 || id > Count {
		return model.Character{}, false
	}
	return Characters()[id-1], true
}
