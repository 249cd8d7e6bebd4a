package catalog

// exercises is the static catalog. Ids are stable and persisted in the
// recent-draw window and in history records.
var exercises = []Exercise{
	// Silent: desk-friendly and discreet.
	{ID: "1", Name: "Neck Rolls", Emoji: "🔄", Difficulty: Silent, DurationSeconds: 30,
		Description: "Slowly roll your head in a circle, 5 times clockwise, then 5 times counterclockwise. Feel the tension melt away."},
	{ID: "2", Name: "Seated Spinal Twist", Emoji: "🌀", Difficulty: Silent, DurationSeconds: 30,
		Description: "Sit tall, place right hand on left knee, twist gently to the left. Hold 15 seconds. Repeat on the other side."},
	{ID: "3", Name: "Wrist Circles", Emoji: "👊", Difficulty: Silent, DurationSeconds: 30,
		Description: "Extend arms forward, make fists, rotate wrists in circles 10 times each direction. Perfect for keyboard warriors."},
	{ID: "4", Name: "Ankle Rolls", Emoji: "👣", Difficulty: Silent, DurationSeconds: 30,
		Description: "Lift one foot slightly off ground, rotate ankle clockwise 10 times, then counterclockwise. Switch feet."},
	{ID: "5", Name: "Eye Exercises", Emoji: "👀", Difficulty: Silent, DurationSeconds: 60,
		Description: "Look far away for 10 seconds, then at something close for 10 seconds. Repeat 5 times. Your eyes will thank you."},
	{ID: "6", Name: "Seated Leg Extensions", Emoji: "🦴", Difficulty: Silent, DurationSeconds: 45,
		Description: "Sit upright, extend one leg straight out, hold for 5 seconds, lower slowly. Alternate legs. Do 10 each side."},
	{ID: "7", Name: "Finger Stretches", Emoji: "✋", Difficulty: Silent, DurationSeconds: 30,
		Description: "Spread fingers wide, hold for 5 seconds, then make a fist. Repeat 10 times. Great for preventing strain!"},
	{ID: "8", Name: "Seated Cat-Cow Stretch", Emoji: "🐱", Difficulty: Silent, DurationSeconds: 40,
		Description: "Sit on edge of chair, arch back and look up, then round spine and look down. Flow between 10 times."},
	{ID: "25", Name: "Shoulder Blade Squeezes", Emoji: "🤝", Difficulty: Silent, DurationSeconds: 45,
		Description: "Sit upright, squeeze shoulder blades together, hold for 5 seconds, release. Repeat 12 times. Perfect posture practice!"},
	{ID: "26", Name: "Seated Hip Stretch", Emoji: "🧘", Difficulty: Silent, DurationSeconds: 40,
		Description: "Sit, cross right ankle over left knee, gently press right knee down. Hold 20 seconds. Switch sides."},
	{ID: "27", Name: "Desk Shoulder Rolls", Emoji: "🔄", Difficulty: Silent, DurationSeconds: 30,
		Description: "Roll shoulders forward in circles 10 times, then backward 10 times. Release that tension!"},

	// Easy: light movement, low impact.
	{ID: "9", Name: "Shoulder Shrugs", Emoji: "💪", Difficulty: Easy, DurationSeconds: 30,
		Description: "Lift both shoulders up toward your ears, hold for 3 seconds, then release. Repeat 10 times."},
	{ID: "10", Name: "Standing Quad Stretch", Emoji: "🦵", Difficulty: Easy, DurationSeconds: 40,
		Description: "Stand up, grab your right ankle behind you, pull gently for 20 seconds. Switch legs. Balance optional!"},
	{ID: "11", Name: "Arm Circles", Emoji: "🔃", Difficulty: Easy, DurationSeconds: 30,
		Description: "Extend arms out to sides, make small circles forward for 15 seconds, then backward for 15 seconds."},
	{ID: "12", Name: "Overhead Reach", Emoji: "🙆", Difficulty: Easy, DurationSeconds: 15,
		Description: "Interlace fingers, flip palms up, reach toward ceiling. Hold for 15 seconds. Feel that stretch!"},
	{ID: "13", Name: "Calf Raises", Emoji: "🦿", Difficulty: Easy, DurationSeconds: 40,
		Description: "Stand behind your chair, hold for balance, rise up on toes. Lower slowly. Do 20 reps."},
	{ID: "14", Name: "Side Bends", Emoji: "🤸", Difficulty: Easy, DurationSeconds: 45,
		Description: "Stand with feet hip-width apart, reach right arm overhead and lean left. Hold 10 seconds. Switch sides. Repeat 5 times."},
	{ID: "15", Name: "Hip Circles", Emoji: "⭕", Difficulty: Easy, DurationSeconds: 35,
		Description: "Stand with hands on hips, make large circles with your hips. 10 circles clockwise, 10 counterclockwise."},
	{ID: "16", Name: "Wall Push-Aways", Emoji: "🧱", Difficulty: Easy, DurationSeconds: 35,
		Description: "Stand arm's length from wall, place palms on wall, lean in and push away. Do 15 gentle reps."},
	{ID: "28", Name: "Torso Twists", Emoji: "🌪️", Difficulty: Easy, DurationSeconds: 40,
		Description: "Stand with feet shoulder-width apart, arms out to sides. Twist torso left and right. Do 20 twists total."},
	{ID: "29", Name: "Knee Lifts", Emoji: "🦶", Difficulty: Easy, DurationSeconds: 35,
		Description: "Stand tall, lift right knee to hip height, lower. Alternate legs. Do 10 lifts each leg."},
	{ID: "30", Name: "Chest Opener Stretch", Emoji: "💝", Difficulty: Easy, DurationSeconds: 25,
		Description: "Clasp hands behind back, straighten arms, lift gently. Hold for 20 seconds. Feel your chest open up!"},

	// Intense: cardio and strength.
	{ID: "17", Name: "Desk Push-Ups", Emoji: "🏋️", Difficulty: Intense, DurationSeconds: 45,
		Description: "Place hands on desk edge, step back, and do 15 push-ups against your desk. Feel that upper body burn!"},
	{ID: "18", Name: "Chair Squats", Emoji: "⬇️", Difficulty: Intense, DurationSeconds: 60,
		Description: "Stand in front of your chair, lower yourself until almost seated, then stand back up. Do 20 reps!"},
	{ID: "19", Name: "High Knees", Emoji: "🏃", Difficulty: Intense, DurationSeconds: 30,
		Description: "March in place, bringing knees up high. Do this for 30 seconds. Get that heart rate up!"},
	{ID: "20", Name: "Jumping Jacks", Emoji: "🤸", Difficulty: Intense, DurationSeconds: 45,
		Description: "Do 25 jumping jacks right there! Arms up, legs out. Classic cardio energy boost."},
	{ID: "21", Name: "Burpees", Emoji: "💥", Difficulty: Intense, DurationSeconds: 60,
		Description: "Squat down, kick feet back to plank, do a push-up, jump feet forward, jump up! Do 10. Yes, really."},
	{ID: "22", Name: "Mountain Climbers", Emoji: "⛰️", Difficulty: Intense, DurationSeconds: 30,
		Description: "Start in plank position, alternate driving knees toward chest quickly. Keep going for 30 seconds!"},
	{ID: "23", Name: "Plank Hold", Emoji: "📏", Difficulty: Intense, DurationSeconds: 45,
		Description: "Get into plank position on forearms, keep body straight from head to heels. Hold for 45 seconds. You got this!"},
	{ID: "24", Name: "Lunge Pulses", Emoji: "🦾", Difficulty: Intense, DurationSeconds: 50,
		Description: "Step into a lunge, pulse up and down 15 times. Switch legs. Feel those quads and glutes working!"},
	{ID: "31", Name: "Standing Oblique Crunches", Emoji: "🔥", Difficulty: Intense, DurationSeconds: 40,
		Description: "Stand, hands behind head, lift right knee to right elbow. Alternate sides. Do 20 total crunches!"},
	{ID: "32", Name: "Tricep Dips", Emoji: "💺", Difficulty: Intense, DurationSeconds: 45,
		Description: "Sit on chair edge, hands gripping edge, slide forward, lower and raise body. Do 15 dips. Feel the burn!"},
	{ID: "33", Name: "Speed Skaters", Emoji: "⛸️", Difficulty: Intense, DurationSeconds: 30,
		Description: "Leap side to side, landing on alternating feet like a speed skater. Keep it up for 30 seconds!"},
}
