package universe

// DefaultSymbols is the tracked list used when no override is configured:
// US indices and large caps, FTSE 100 and S&P/TSX 60 leaders, major crypto
// and the most traded ETFs.
var DefaultSymbols = []string{
	// US indices & tech
	"^GSPC", "^DJI", "^IXIC",
	"AAPL", "MSFT", "GOOGL", "AMZN", "META", "TSLA", "NVDA", "AVGO", "NFLX", "AMD", "INTC",
	// US blue chips
	"BRK-B", "V", "MA", "JPM", "UNH", "COST", "DIS", "WMT", "PG", "JNJ", "XOM", "HD", "CVX", "MRK", "ABBV", "PEP", "KO",
	// UK (FTSE 100)
	"AZN.L", "SHEL.L", "HSBA.L", "ULVR.L", "BP.L", "RIO.L", "DGE.L", "GSK.L", "REL.L", "LSEG.L",
	"BATS.L", "NG.L", "RKT.L", "BARC.L", "LLOY.L", "VOD.L", "PRU.L", "EXPN.L", "STAN.L", "ABF.L",
	// Canada (S&P/TSX 60)
	"SHOP.TO", "RY.TO", "TD.TO", "AEM.TO", "ATD.TO", "BMO.TO", "BNS.TO", "ABX.TO", "BCE.TO", "BAM.TO",
	"BN.TO", "CM.TO", "CVE.TO", "CSU.TO", "DOL.TO", "ENB.TO", "FTS.TO", "CNR.TO", "CP.TO", "CNQ.TO",
	// Crypto & ETFs
	"BTC-USD", "ETH-USD", "SOL-USD",
	"SPY", "QQQ", "VOO",
}

// knownETFs are classified as ETF without a provider hint
var knownETFs = map[string]bool{
	"VOO": true, "SPY": true, "QQQ": true, "IVV": true, "VTI": true, "VEA": true, "VWO": true,
	"IWM": true, "DIA": true, "EEM": true, "AGG": true,
	"VFV.TO": true, "XIC.TO": true, "VCN.TO": true, "VDY.TO": true, "XIU.TO": true, "ZEB.TO": true,
	"VUKE.L": true, "ISF.L": true, "IUKD.L": true,
}

// sectors labels well-known symbols for the dashboard
var sectors = map[string]string{
	"AAPL": "Technology", "MSFT": "Technology", "GOOGL": "Technology", "META": "Technology",
	"NVDA": "Technology", "AVGO": "Technology", "AMD": "Technology", "INTC": "Technology",
	"AMZN": "Consumer", "WMT": "Consumer", "PG": "Consumer", "HD": "Consumer", "COST": "Consumer",
	"PEP": "Consumer", "KO": "Consumer", "TSLA": "Automotive", "NFLX": "Entertainment", "DIS": "Entertainment",
	"JPM": "Financials", "V": "Financials", "MA": "Financials", "BRK-B": "Financials",
	"JNJ": "Healthcare", "UNH": "Healthcare", "MRK": "Healthcare", "ABBV": "Healthcare",
	"XOM": "Energy", "CVX": "Energy",
	"SPY": "Broad Market", "VOO": "Broad Market", "VTI": "Broad Market", "DIA": "Broad Market",
	"QQQ": "Technology", "IWM": "Small Cap", "EEM": "Emerging Markets", "AGG": "Bonds",
	"SHEL.L": "Energy", "BP.L": "Energy", "AZN.L": "Healthcare", "GSK.L": "Healthcare",
	"HSBA.L": "Financials", "BARC.L": "Financials", "LLOY.L": "Financials", "ULVR.L": "Consumer",
	"VUKE.L": "Broad Market", "ISF.L": "Broad Market", "IUKD.L": "Dividend",
	"SHOP.TO": "Technology", "CSU.TO": "Technology", "TD.TO": "Financials", "RY.TO": "Financials",
	"BMO.TO": "Financials", "BNS.TO": "Financials", "CM.TO": "Financials", "BAM.TO": "Financials",
	"ENB.TO": "Energy", "CNQ.TO": "Energy", "CVE.TO": "Energy", "CNR.TO": "Transportation",
	"CP.TO": "Transportation", "VFV.TO": "Broad Market", "XIC.TO": "Broad Market", "XIU.TO": "Broad Market",
	"BTC-USD": "Crypto", "ETH-USD": "Crypto", "SOL-USD": "Crypto",
}
