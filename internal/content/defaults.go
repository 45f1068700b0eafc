package content

// Pool names.
const (
	PoolFacts       = "facts"
	PoolTips        = "tips"
	PoolRecommended = "recommended"
	PoolDiscouraged = "discouraged"
)

var defaultFacts = []string{
	"适当摸鱼有助于提高工作效率。",
	"摸鱼可以帮助缓解压力，改善心情。",
	"通过摸鱼可以激发创造力和灵感。",
	"适当休息有助于保持身心健康。",
	"摸鱼可以让你更好地集中注意力。",
	"摸鱼时，可以发现新的兴趣爱好。",
	"摸鱼可以让你更好地平衡工作和生活。",
	"短暂的摸鱼可以提高你的幸福感。",
	"适当的摸鱼可以预防职业倦怠。",
	"摸鱼有助于增进同事之间的关系。",
	"摸鱼时，你可以进行自我反思和总结。",
	"摸鱼可以让你有时间思考和规划未来。",
	"摸鱼可以帮助你保持创造性的思维。",
	"适当的摸鱼可以减少工作中的压力。",
	"摸鱼可以让你更好地享受工作。",
	"摸鱼时，你可以学习新的技能。",
	"摸鱼可以帮助你更好地适应工作节奏。",
	"适当的摸鱼可以提高你的工作满意度。",
	"摸鱼时，你可以放松身心，充电再出发。",
	"摸鱼可以让你有时间关注自己的健康。",
}

var defaultTips = []string{
	"找一个隐蔽的角落，悄悄休息。",
	"在上厕所时，稍微多待一会儿。",
	"利用午休时间打个盹。",
	"与同事聊天，放松一下。",
	"适当浏览新闻网站，了解时事。",
	"在工位上听音乐，放松心情。",
	"走出办公室，呼吸新鲜空气。",
	"假装思考，实际上在放空。",
	"做些与工作无关的读物阅读。",
	"偶尔看看搞笑视频，放松心情。",
	"用喝水的借口，多走动一下。",
	"整理桌面，顺便摸鱼。",
	"调整座椅，享受片刻宁静。",
	"写写画画，放飞思绪。",
	"利用会议间隙，休息一下。",
	"给朋友发信息，聊聊天。",
	"假装打电话，放松一下。",
	"看看窗外，放松眼睛。",
	"进行简短的冥想，缓解压力。",
	"用便签写下灵感，实际在摸鱼。",
}

var defaultRecommended = []string{
	"吃瓜追剧",
	"聊天灌水",
	"睡觉摸鱼",
	"玩游戏",
	"看书",
	"散步",
	"听音乐",
	"打盹",
	"逛街",
	"做白日梦",
	"冥想",
	"喝咖啡",
	"发呆",
	"看电影",
	"画画",
	"种花",
	"钓鱼",
	"摄影",
	"烹饪",
	"练瑜伽",
}

var defaultDiscouraged = []string{
	"加班",
	"拼命工作",
	"学习新技能",
	"开会",
	"写报告",
	"整理文件",
	"数据分析",
	"市场调研",
	"客户拜访",
	"计划制定",
	"目标设定",
	"团队建设",
	"提升业绩",
	"项目管理",
	"时间管理",
	"绩效考核",
	"竞争分析",
	"战略规划",
	"企业培训",
	"工作总结",
}
