package prompt

import "novelog-backend/internal/novel/domain"

// genreGuide holds the per-genre writing directions injected into the
// content prompt, one variant per output language, plus the fixed cover-art
// direction which is language independent.
type genreGuide struct {
	ko    string
	en    string
	cover string
}

var genreGuides = map[domain.Genre]genreGuide{
	domain.GenreRomance: {
		ko: "장르는 로맨스입니다. 일상의 사소한 순간에서 피어나는 설렘과 감정의 흐름을 섬세하게 묘사하세요. 주인공의 내면 독백을 적극적으로 활용하고, 관계의 거리감이 조금씩 좁혀지는 과정을 중심에 두세요.",
		en: "The genre is romance. Render the quiet flutter hidden in ordinary moments, follow the slow closing of distance between two people, and lean on the narrator's inner monologue.",
		cover: "A dreamy, warm romance novel cover illustration. Soft pastel tones, golden-hour light, a quiet scene such as a cafe window, letters, or cherry blossoms. No text, no people, no violence.",
	},
	domain.GenreMystery: {
		ko: "장르는 미스터리입니다. 일기의 평범한 사건들을 단서처럼 재배치하여 긴장감을 쌓고, 독자가 끝까지 추리하게 만드세요. 복선은 앞부분에 심고 마지막에 회수하세요.",
		en: "The genre is mystery. Recast the week's mundane events as clues, build tension steadily, plant foreshadowing early and resolve it at the end.",
		cover: "A moody mystery novel cover illustration. Fog, deep blue and grey palette, a single streetlamp or an ajar door, long shadows. No text, no people, no violence or gore.",
	},
	domain.GenreHistorical: {
		ko: "장르는 역사물입니다. 일기의 사건을 과거 시대의 배경으로 옮겨 재해석하세요. 시대의 말투와 풍경 묘사를 살리되, 현대 독자가 읽기 쉽게 쓰세요.",
		en: "The genre is historical fiction. Transpose the diary's events into a past era, keep period texture in speech and scenery, yet stay readable for a modern audience.",
		cover: "A classical historical novel cover illustration. Muted earth tones, traditional architecture or an old landscape, painterly brushwork. No text, no people, no violence.",
	},
	domain.GenreFairytale: {
		ko: "장르는 동화입니다. 따뜻하고 부드러운 문장으로, 일기 속 하루하루를 작은 모험으로 바꾸세요. 의인화된 사물이나 동물이 등장해도 좋습니다. 잔잔한 교훈으로 마무리하세요.",
		en: "The genre is fairytale. Use warm, gentle sentences, turn each day into a small adventure, let objects or animals speak if it helps, and close with a quiet moral.",
		cover: "A whimsical storybook cover illustration. Soft watercolor, a cozy forest, tiny glowing lights, friendly animals allowed. No text, no humans, no violence.",
	},
	domain.GenreFantasy: {
		ko: "장르는 판타지입니다. 일기 속 현실의 인물과 사건을 마법과 이세계의 규칙 위에 올려놓으세요. 세계관의 규칙을 초반에 자연스럽게 보여주고 일관되게 지키세요.",
		en: "The genre is fantasy. Lift the diary's people and events onto a world with its own magic and rules, establish those rules early and never break them.",
		cover: "An epic fantasy novel cover illustration. Vivid colors, floating islands or ancient towers, magical light, wide landscape composition. No text, no people, no violence.",
	},
	domain.GenreHorror: {
		ko: "장르는 호러입니다. 일상의 익숙한 공간이 조금씩 낯설어지는 과정을 통해 서늘한 불안감을 쌓으세요. 직접적인 묘사보다 암시와 여백으로 공포를 만드세요. 잔혹한 장면은 쓰지 마세요.",
		en: "The genre is horror. Let familiar everyday spaces turn slowly strange, build dread through implication and omission rather than explicit description, and avoid gore entirely.",
		cover: "An unsettling but restrained horror novel cover illustration. Dark desaturated palette, an empty hallway or flickering light, heavy negative space. No text, no people, absolutely no gore or violence.",
	},
}

var emotionLabels = map[domain.Emotion]struct{ ko, en string }{
	domain.EmotionLove:      {"사랑", "love"},
	domain.EmotionGood:      {"좋음", "good"},
	domain.EmotionNormal:    {"보통", "normal"},
	domain.EmotionSurprised: {"놀람", "surprised"},
	domain.EmotionAngry:     {"화남", "angry"},
	domain.EmotionCry:       {"슬픔", "tearful"},
}
