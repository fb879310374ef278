// Package registry is the static catalog of AI personas and public rooms.
// It is initialized once and never mutated.
package registry

import "github.com/volkanakbulut73/sohbetchat3/internal/types"

// SocratesBotID identifies the persona routed to the specialized generation
// backend instead of the general one.
const SocratesBotID = "bot_socrates"

// Bots are the AI personas available across public rooms.
var Bots = []types.User{
	{
		ID:     "bot_atlas",
		Name:   "Atlas",
		Avatar: "https://picsum.photos/seed/atlas/200/200",
		IsBot:  true,
		Role:   "Bilge ve Felsefi",
	},
	{
		ID:     "bot_luna",
		Name:   "Luna",
		Avatar: "https://picsum.photos/seed/luna/200/200",
		IsBot:  true,
		Role:   "Enerjik ve Teknoloji Meraklısı",
	},
	{
		ID:     "bot_golge",
		Name:   "Gölge",
		Avatar: "https://picsum.photos/seed/golge/200/200",
		IsBot:  true,
		Role:   "Şüpheci ve Eleştirel",
	},
	{
		ID:     "bot_komik",
		Name:   "Cem",
		Avatar: "https://picsum.photos/seed/cem/200/200",
		IsBot:  true,
		Role:   "Esprili ve Rahat",
	},
	{
		ID:     SocratesBotID,
		Name:   "Sokrates",
		Avatar: "https://api.dicebear.com/7.x/bottts/svg?seed=socrates&backgroundColor=ffd5dc",
		IsBot:  true,
		Role:   "Antik Yunan Filozofu, Sokratik yöntem uzmanı.",
	},
}

// Rooms are the public rooms, each with its assigned persona roster.
var Rooms = []types.ChatRoom{
	{
		ID:           "room_china",
		Name:         "Çin ile Ticaret",
		Topic:        "Çin'den ithalat, gümrük mevzuatı, toptan ürün bulma, tedarikçi güvenliği ve lojistik süreçleri",
		Description:  "Çin pazarından ürün getirme, gümrük vergileri, Alibaba/1688 kullanımı ve nakliye üzerine her şey.",
		Participants: []types.User{Bots[0], Bots[2]},
	},
	{
		ID:           "room_life",
		Name:         "Hayatın Anlamı",
		Topic:        "Felsefe, günlük yaşam ve insan psikolojisi",
		Description:  "Hayat, evren ve her şey üzerine düşünceler.",
		Participants: []types.User{Bots[0], Bots[4], Bots[3]},
	},
	{
		ID:           "room_chaos",
		Name:         "Kaos Kulübü",
		Topic:        "Rastgele konular, eğlence ve tartışma",
		Description:  "Her kafadan bir ses, tam bir grup karmaşası.",
		Participants: []types.User{Bots[0], Bots[1], Bots[2], Bots[3], Bots[4]},
	},
}

// Room returns the public room with the given id.
func Room(id string) (types.ChatRoom, bool) {
	for _, room := range Rooms {
		if room.ID == id {
			return room, true
		}
	}
	return types.ChatRoom{}, false
}

// Bot returns the persona with the given id.
func Bot(id string) (types.User, bool) {
	for _, bot := range Bots {
		if bot.ID == id {
			return bot, true
		}
	}
	return types.User{}, false
}
